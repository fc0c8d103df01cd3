package models

import (
	"errors"
	"strings"
	"time"
)

const MinUsernameLength = 3

// User is the local copy of an account owning posts. Accounts are created by
// the auth service and arrive here through user events.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Normalize trims the identity fields, lowercases the email and checks the
// user can be stored
func (u *User) Normalize() error {
	u.ID = strings.TrimSpace(u.ID)
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	switch {
	case u.ID == "":
		return errors.New("user id is required")
	case len(u.Username) < MinUsernameLength:
		return errors.New("username must be at least 3 characters")
	case u.Email == "":
		return errors.New("email is required")
	}
	return nil
}
