package models

import (
	"time"
)

type User struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string     `gorm:"column:first_name;not null" json:"first_name"`
	LastName  string     `gorm:"column:last_name;not null" json:"last_name"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"column:password;not null" json:"-"` // bcrypt digest, never serialized
	Birthday  *time.Time `gorm:"type:date" json:"birthday"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
