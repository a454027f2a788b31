package identity

import "time"

// User maps to the users table. PasswordHash never leaves the API.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           string    `db:"role" json:"role"`
	FullName       string    `db:"full_name" json:"full_name"`
	OrganizationID *int64    `db:"organization_id" json:"organization_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// CreateUserRequest is the admin payload for provisioning an account.
type CreateUserRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	FullName       string `json:"full_name"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned from a successful login.
type TokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
