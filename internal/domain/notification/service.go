package notification

import (
	"context"
	"strings"

	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/auth"
)

var validKinds = map[string]bool{
	KindAppointment: true,
	KindTask:        true,
	KindMedication:  true,
	KindSystem:      true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify creates a notification for a user. Called by other services on
// domain events, not exposed over HTTP.
func (s *Service) Notify(ctx context.Context, userID int64, kind, message string) error {
	if userID <= 0 {
		return apperror.NewValidation("user_id", "user is required")
	}
	if !validKinds[kind] {
		return apperror.NewValidation("kind", "unknown notification kind")
	}
	if strings.TrimSpace(message) == "" {
		return apperror.NewValidation("message", "message is required")
	}
	return s.repo.Create(ctx, &Notification{UserID: userID, Kind: kind, Message: message})
}

// Inbox lists the caller's own notifications.
func (s *Service) Inbox(ctx context.Context, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	u, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, 0, apperror.NewValidation("user", "no authenticated user")
	}
	return s.repo.ListByUser(ctx, u.ID, unreadOnly, limit, offset)
}

// MarkRead flags one of the caller's notifications as read. Reading another
// user's notification reports not found, not forbidden, so ids cannot be
// probed.
func (s *Service) MarkRead(ctx context.Context, id int64) (*Notification, error) {
	u, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, apperror.NewValidation("user", "no authenticated user")
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != u.ID {
		return nil, apperror.NewNotFound("notification", id)
	}
	return s.repo.MarkRead(ctx, id)
}
