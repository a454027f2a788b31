package notification

import (
	"context"
	"testing"
	"time"

	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/auth"
)

type mockRepo struct {
	notifications map[int64]*Notification
	nextID        int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{notifications: map[int64]*Notification{}, nextID: 1}
}

func (r *mockRepo) Create(ctx context.Context, n *Notification) error {
	n.ID = r.nextID
	r.nextID++
	n.CreatedAt = time.Now()
	r.notifications[n.ID] = n
	return nil
}

func (r *mockRepo) GetByID(ctx context.Context, id int64) (*Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return nil, apperror.NewNotFound("notification", id)
	}
	return n, nil
}

func (r *mockRepo) MarkRead(ctx context.Context, id int64) (*Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return nil, apperror.NewNotFound("notification", id)
	}
	n.Read = true
	return n, nil
}

func (r *mockRepo) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	var out []*Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, len(out), nil
}

func userCtx(id int64) context.Context {
	return auth.WithUser(context.Background(), auth.User{ID: id, Role: auth.RoleNurse})
}

func TestNotifyAndInbox(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Notify(context.Background(), 7, KindTask, "Task assigned: morning round"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := svc.Notify(context.Background(), 8, KindSystem, "Welcome"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	items, total, err := svc.Inbox(userCtx(7), false, 20, 0)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if total != 1 || items[0].UserID != 7 {
		t.Errorf("expected only own notifications, got total=%d", total)
	}
}

func TestNotify_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Notify(context.Background(), 0, KindTask, "x"); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for missing user, got %v", err)
	}
	if err := svc.Notify(context.Background(), 7, "gossip", "x"); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for unknown kind, got %v", err)
	}
	if err := svc.Notify(context.Background(), 7, KindTask, " "); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for empty message, got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Notify(context.Background(), 7, KindAppointment, "Appointment tomorrow 09:00"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	n, err := svc.MarkRead(userCtx(7), 1)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !n.Read {
		t.Error("expected notification to be read")
	}

	_, total, err := svc.Inbox(userCtx(7), true, 20, 0)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if total != 0 {
		t.Errorf("unread inbox should be empty, got %d", total)
	}
}

func TestMarkRead_ForeignNotification(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Notify(context.Background(), 7, KindSystem, "hello"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if _, err := svc.MarkRead(userCtx(8), 1); !apperror.IsNotFound(err) {
		t.Errorf("foreign notification must read as not found, got %v", err)
	}
}
