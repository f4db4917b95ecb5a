package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already exists")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Pod          *string   `json:"pod,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     string  `json:"name" binding:"required,max=255"`
	Role     string  `json:"role" binding:"required,oneof=Admin Manager 'Team Lead' User 'Internal Admin'"`
	Pod      *string `json:"pod" binding:"omitempty,max=100"`
}
