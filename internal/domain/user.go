// Package domain contains entity meta-data without logic.
package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")

type UserID int64

// User is the stored account. Never serialized to the wire as-is.
type User struct {
	ID             UserID
	Email          string
	FullName       string
	HashedPassword string
}

// UserPublic is the sanitized projection safe to send to other members.
type UserPublic struct {
	ID       UserID `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

func (u *User) Public() UserPublic {
	return UserPublic{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

// DisplayName is what typing notifications carry: full name, or the
// email when the profile has no name set.
func (u UserPublic) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
