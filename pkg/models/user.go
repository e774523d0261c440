package models

import "time"

// User is an account. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserUpdate is a partial update over the mutable account attributes.
type UserUpdate struct {
	Name         *string
	PasswordHash *string
}

// Empty reports whether no attribute is being updated.
func (u *UserUpdate) Empty() bool {
	return u.Name == nil && u.PasswordHash == nil
}
