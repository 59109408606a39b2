package domain

import (
	"strconv"
	"time"
)

// User represents an identity able to sign in and own tasks.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Subject returns the identifier embedded in tokens issued for the user.
func (u *User) Subject() string {
	if u == nil {
		return ""
	}
	return strconv.FormatInt(u.ID, 10)
}
