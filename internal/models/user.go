// internal/models/user.go
package models

import "time"

// User is a journal owner. There is no password; the username is the identity.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
	Created  bool   `json:"created"`
}
