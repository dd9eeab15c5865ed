// Package domain contains entity without logic, just meta-data
package domain

import (
	"fmt"
	"strings"
)

const (
	MaxUserIDLen   = 36
	MaxUsernameLen = 36
)

type UserID string

type User struct {
	ID        UserID `json:"id"`
	Username  string `json:"username"`
	IsSharing bool   `json:"isSharing"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
// The id is the connection id the user is bound to.
func NewUser(id UserID, username string) (*User, error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	return &User{ID: id, Username: name}, nil
}

func NormalizeUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	if len(name) == 0 {
		return "", ErrUsernameEmpty
	}
	if len(name) > MaxUsernameLen {
		return "", ErrUsernameTooLong
	}
	return name, nil
}

func (u User) String() string {
	return fmt.Sprintf("%s(%s)", u.Username, u.ID)
}
