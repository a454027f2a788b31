package organization

import (
	"context"
	"strings"

	"github.com/spito/spito/internal/domain/identity"
	"github.com/spito/spito/internal/platform/apperror"
)

// EmployeeLister lists user accounts belonging to an organization.
type EmployeeLister interface {
	List(ctx context.Context, role string, organizationID int64, limit, offset int) ([]*identity.User, int, error)
}

type Service struct {
	orgs  Repository
	users EmployeeLister
}

func NewService(orgs Repository, users EmployeeLister) *Service {
	return &Service{orgs: orgs, users: users}
}

func validate(o *Organization) error {
	if strings.TrimSpace(o.Name) == "" {
		return apperror.NewValidation("name", "name is required")
	}
	if strings.TrimSpace(o.Type) == "" {
		return apperror.NewValidation("type", "type is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, o *Organization) error {
	if err := validate(o); err != nil {
		return err
	}
	return s.orgs.Create(ctx, o)
}

func (s *Service) Get(ctx context.Context, id int64) (*Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, o *Organization) error {
	if err := validate(o); err != nil {
		return err
	}
	return s.orgs.Update(ctx, o)
}

// Employees returns the accounts attached to an organization. The
// organization must exist.
func (s *Service) Employees(ctx context.Context, orgID int64, limit, offset int) ([]*identity.User, int, error) {
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, "", orgID, limit, offset)
}
