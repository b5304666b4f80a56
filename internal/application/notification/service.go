package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/intake-dal/internal/domain"
	"github.com/intake-dal/internal/infrastructure/metrics"
	"github.com/intake-dal/internal/pkg/validate"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultLimit caps GetForUser when the caller passes no limit.
	DefaultLimit = 50
	// commentPreviewRunes is the longest comment carried verbatim in a notification message.
	commentPreviewRunes = 100
	defaultConcurrency  = 8
)

type Service interface {
	Notify(ctx context.Context, in domain.NotificationInput) bool
	FanOutComment(ctx context.Context, eventID, eventName, staffName, comment string) bool
	GetForUser(ctx context.Context, userID string, limit int) []domain.Notification
	Get(ctx context.Context, id string) *domain.Notification
	UnreadCount(ctx context.Context, userID string) int
	MarkRead(ctx context.Context, id string) bool
	MarkAllRead(ctx context.Context, userID string) bool
}

type documentStore interface {
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Get(ctx context.Context, collection, id string) (*domain.Document, error)
	Update(ctx context.Context, collection, id string, delta map[string]any) error
	Query(ctx context.Context, collection string, filters map[string]any, limit int) ([]domain.Document, error)
}

type registry interface {
	RegisteredUsers(ctx context.Context, eventID string) ([]string, error)
}

type publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}

type service struct {
	docs        documentStore
	events      registry
	publisher   publisher
	concurrency int
}

type ServiceDeps struct {
	Docs        documentStore
	Events      registry
	Publisher   publisher // optional
	Concurrency int       // parallel writes during fan-out
}

func NewService(deps ServiceDeps) Service {
	n := deps.Concurrency
	if n <= 0 {
		n = defaultConcurrency
	}
	return &service{docs: deps.Docs, events: deps.Events, publisher: deps.Publisher, concurrency: n}
}

func (s *service) Notify(ctx context.Context, in domain.NotificationInput) bool {
	if err := validate.Struct(in); err != nil {
		slog.Warn("notification rejected", "err", err)
		metrics.RecordNotification(false)
		return false
	}
	id, err := s.docs.Create(ctx, domain.CollectionNotifications, domain.NewNotificationFields(in))
	metrics.RecordNotification(err == nil)
	if err != nil {
		slog.Error("create notification", "user", in.UserID, "err", err)
		return false
	}
	slog.Debug("notification created", "id", id, "user", in.UserID)
	if s.publisher != nil {
		s.publish(ctx, id, in)
	}
	return true
}

func (s *service) publish(ctx context.Context, id string, in domain.NotificationInput) {
	n := domain.Notification{
		ID:        id,
		UserID:    in.UserID,
		Title:     in.Title,
		Message:   in.Message,
		EventID:   in.EventID,
		EventName: in.EventName,
		Type:      in.Type,
		CreatedBy: in.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		slog.Warn("publish notification", "id", id, "err", err)
	}
}

// FanOutComment notifies every user registered for the event. A failed write
// for one recipient does not stop the others.
func (s *service) FanOutComment(ctx context.Context, eventID, eventName, staffName, comment string) bool {
	users, err := s.events.RegisteredUsers(ctx, eventID)
	if err != nil {
		slog.Error("resolve registered users", "event", eventID, "err", err)
		return false
	}
	if len(users) == 0 {
		slog.Info("no registered users for event", "event", eventID)
		return true
	}

	message := fmt.Sprintf("%s: %s", staffName, truncate(comment, commentPreviewRunes))
	var failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, email := range users {
		email := email
		g.Go(func() error {
			ok := s.Notify(ctx, domain.NotificationInput{
				UserID:    email,
				Title:     "New comment on " + eventName,
				Message:   message,
				EventID:   eventID,
				EventName: eventName,
				Type:      domain.NotificationTypeComment,
				CreatedBy: staffName,
			})
			if !ok {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("comment fan-out done", "event", eventID, "recipients", len(users), "failed", failed.Load())
	return true
}

func (s *service) GetForUser(ctx context.Context, userID string, limit int) []domain.Notification {
	if limit <= 0 {
		limit = DefaultLimit
	}
	docs, err := s.docs.Query(ctx, domain.CollectionNotifications, map[string]any{domain.FieldUserID: userID}, limit)
	if err != nil {
		slog.Error("list notifications", "user", userID, "err", err)
		return []domain.Notification{}
	}
	out := make([]domain.Notification, 0, len(docs))
	for _, d := range docs {
		n, err := domain.NotificationFromDocument(d)
		if err != nil {
			slog.Warn("skipping notification", "id", d.ID, "err", err)
			continue
		}
		out = append(out, *n)
	}
	return out
}

func (s *service) Get(ctx context.Context, id string) *domain.Notification {
	d, err := s.docs.Get(ctx, domain.CollectionNotifications, id)
	if err != nil {
		slog.Error("get notification", "id", id, "err", err)
		return nil
	}
	if d == nil {
		return nil
	}
	n, err := domain.NotificationFromDocument(*d)
	if err != nil {
		return nil
	}
	return n
}

func (s *service) UnreadCount(ctx context.Context, userID string) int {
	docs, err := s.unread(ctx, userID)
	if err != nil {
		slog.Error("count unread notifications", "user", userID, "err", err)
		return 0
	}
	return len(docs)
}

func (s *service) MarkRead(ctx context.Context, id string) bool {
	if err := s.docs.Update(ctx, domain.CollectionNotifications, id, map[string]any{domain.FieldIsRead: true}); err != nil {
		slog.Error("mark notification read", "id", id, "err", err)
		return false
	}
	return true
}

// MarkAllRead marks the user's unread notifications as of the query. Notifications
// created afterwards stay unread. The first failed write ends the run.
func (s *service) MarkAllRead(ctx context.Context, userID string) bool {
	docs, err := s.unread(ctx, userID)
	if err != nil {
		slog.Error("list unread notifications", "user", userID, "err", err)
		return false
	}
	for _, d := range docs {
		if !s.MarkRead(ctx, d.ID) {
			return false
		}
	}
	slog.Info("marked notifications read", "user", userID, "count", len(docs))
	return true
}

func (s *service) unread(ctx context.Context, userID string) ([]domain.Document, error) {
	return s.docs.Query(ctx, domain.CollectionNotifications, map[string]any{
		domain.FieldUserID: userID,
		domain.FieldIsRead: false,
	}, 0)
}

// truncate keeps the first max runes of s, appending "..." when anything was cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
