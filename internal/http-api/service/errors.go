package service

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailInUse      = errors.New("email already in use")
	ErrNothingToUpdate = errors.New("nothing to update")
)
