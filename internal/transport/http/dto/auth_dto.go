package dto

import (
	"time"

	"github.com/gamerverse/backend/internal/domain/model"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}
