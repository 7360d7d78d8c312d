package model

import (
	"time"

	"github.com/gamerverse/backend/internal/domain/enums"
)

type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Avatar       string       `json:"avatar,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Roles        []enums.Role `json:"roles"`
	Banned       bool         `json:"banned"`
	Warnings     int          `json:"warnings"`
	MutedUntil   *time.Time   `json:"muted_until,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (u User) HasRole(role enums.Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
