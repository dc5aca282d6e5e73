package models

import (
	"time"

	"verifyflow/internal/casework/workflow"
	id "verifyflow/pkg/domain"
)

// User is an account that can hold a session. Email is stored normalized.
type User struct {
	ID           id.UserID      `json:"id"`
	Email        string         `json:"email"`
	FullName     string         `json:"full_name"`
	Role         workflow.Actor `json:"role"`
	PasswordHash string         `json:"-"` // Never serialize - contains bcrypt hash
	CreatedAt    time.Time      `json:"created_at"`
}
