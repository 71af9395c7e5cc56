// Package auth handles user accounts and bearer-token sessions for the store
// API. Passwords are hashed with argon2id; sessions live in Redis under
// session:<token> with a sliding TTL that Refresh extends.
package auth

import "time"

// User is a registered account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// --- Request DTOs ---

// RegisterRequest holds the data submitted to create an account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
}

// SignInRequest holds credentials for starting a session.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Session ---

// Session is the JSON value stored in Redis for each token.
type Session struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Token is returned by SignIn and Refresh.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Session   `json:"user"`
}
