package identity

import (
	"context"
	"strings"
	"time"

	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/auth"
)

const minPasswordLength = 8

// Service provisions accounts and authenticates logins.
type Service struct {
	users  UserRepository
	secret []byte
	ttl    time.Duration
}

func NewService(users UserRepository, secret []byte, ttl time.Duration) *Service {
	return &Service{users: users, secret: secret, ttl: ttl}
}

func (s *Service) validateCreate(req *CreateUserRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return apperror.NewValidation("username", "username is required")
	}
	if len(req.Password) < minPasswordLength {
		return apperror.NewValidation("password", "password must be at least 8 characters")
	}
	if !auth.ValidRole(req.Role) {
		return apperror.NewValidation("role", "unknown role")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return apperror.NewValidation("full_name", "full name is required")
	}
	return nil
}

// CreateUser provisions a new account with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewStore("hash password", err)
	}
	u := &User{
		Username:       strings.TrimSpace(req.Username),
		PasswordHash:   hash,
		Role:           req.Role,
		FullName:       strings.TrimSpace(req.FullName),
		OrganizationID: req.OrganizationID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks credentials and issues a signed token. Lookup
// failures and password mismatches return the same validation error so
// the response does not reveal which usernames exist.
func (s *Service) Authenticate(ctx context.Context, creds *Credentials) (*TokenResponse, error) {
	invalid := apperror.NewValidation("credentials", "invalid username or password")
	if creds.Username == "" || creds.Password == "" {
		return nil, invalid
	}
	u, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, creds.Password) {
		return nil, invalid
	}
	token, err := auth.IssueToken(s.secret, auth.User{ID: u.ID, Role: u.Role}, s.ttl)
	if err != nil {
		return nil, apperror.NewStore("issue token", err)
	}
	return &TokenResponse{Token: token, User: u}, nil
}

// GetUser looks up an account by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns accounts, optionally filtered by role or organization.
func (s *Service) ListUsers(ctx context.Context, role string, organizationID int64, limit, offset int) ([]*User, int, error) {
	if role != "" && !auth.ValidRole(role) {
		return nil, 0, apperror.NewValidation("role", "unknown role")
	}
	return s.users.List(ctx, role, organizationID, limit, offset)
}
