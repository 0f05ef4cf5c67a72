package service

import (
	"fmt"
	"strings"
	"time"

	"users-api/internal/http-api/dto"
	"users-api/internal/http-api/repository"
	"users-api/internal/http-api/security"
	"users-api/internal/http-api/validation"
)

// UpdateResolver turns a sparse update request into the column assignments
// to persist. It never touches the store. Resolve leaves a new password in
// plaintext; HashPassword replaces it with the digest once the caller has
// finished its store checks.
type UpdateResolver struct {
	hasher security.PasswordHasher
}

func NewUpdateResolver(hasher security.PasswordHasher) *UpdateResolver {
	return &UpdateResolver{hasher: hasher}
}

// Resolve returns assignments in column order first_name, last_name, email,
// password, birthday, followed by updated_at = now. Empty strings are treated
// as not supplied; birthday is applied whenever the key was present, so an
// explicit null clears it. ErrNothingToUpdate means the caller must not write.
// The password value is not hashed yet.
func (r *UpdateResolver) Resolve(req dto.UpdateUserRequest, now time.Time) ([]repository.Assignment, error) {
	var out []repository.Assignment

	if v := strings.TrimSpace(req.FirstName); v != "" {
		out = append(out, repository.Assignment{Column: "first_name", Value: v})
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		out = append(out, repository.Assignment{Column: "last_name", Value: v})
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		if !validation.IsValidEmail(v) {
			return nil, validation.NewValidationError("invalid email format", "email")
		}
		out = append(out, repository.Assignment{Column: "email", Value: v})
	}
	if req.Password != "" {
		out = append(out, repository.Assignment{Column: "password", Value: req.Password})
	}
	if req.Birthday.Set {
		var value interface{}
		if req.Birthday.Value != nil {
			value = *req.Birthday.Value
		}
		out = append(out, repository.Assignment{Column: "birthday", Value: value})
	}

	if len(out) == 0 {
		return nil, ErrNothingToUpdate
	}
	return append(out, repository.Assignment{Column: "updated_at", Value: now}), nil
}

// HashPassword replaces the plaintext password assignment, if any, with its
// digest.
func (r *UpdateResolver) HashPassword(assignments []repository.Assignment) error {
	for i, a := range assignments {
		if a.Column != "password" {
			continue
		}
		plaintext, ok := a.Value.(string)
		if !ok {
			return fmt.Errorf("password assignment holds %T", a.Value)
		}
		digest, err := hashPassword(r.hasher, plaintext)
		if err != nil {
			return err
		}
		assignments[i].Value = digest
	}
	return nil
}

// ChangedEmail returns the new email among assignments, if any.
func ChangedEmail(assignments []repository.Assignment) (string, bool) {
	for _, a := range assignments {
		if a.Column == "email" {
			email, ok := a.Value.(string)
			return email, ok
		}
	}
	return "", false
}
