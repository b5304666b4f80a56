package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/intake-dal/internal/domain"
	"github.com/intake-dal/internal/infrastructure/metrics"
)

// Skip records a document left out of a listing.
type Skip struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Listing is the result of folding a collection into records.
type Listing[T any] struct {
	Records []T    `json:"records"`
	Skipped []Skip `json:"skipped,omitempty"`
}

type Service interface {
	ListApplications(ctx context.Context) Listing[domain.Application]
	ListVolunteerApplications(ctx context.Context) Listing[domain.VolunteerApplication]
	GetApplicationByEmail(ctx context.Context, email string) *domain.Application
	GetVolunteerApplication(ctx context.Context, id string) *domain.VolunteerApplication
	UpdateStatus(ctx context.Context, kind domain.Kind, id, status string) bool
}

type documentStore interface {
	Get(ctx context.Context, collection, id string) (*domain.Document, error)
	Update(ctx context.Context, collection, id string, delta map[string]any) error
	Query(ctx context.Context, collection string, filters map[string]any, limit int) ([]domain.Document, error)
}

type urlSigner interface {
	SignReadURL(ctx context.Context, rawURL string, ttl time.Duration) domain.SignedURL
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	docs   documentStore
	signer urlSigner
	mailer mailer
	ttl    time.Duration
}

type ServiceDeps struct {
	Docs      documentStore
	Signer    urlSigner
	Mailer    mailer // optional
	SignedTTL time.Duration
}

func NewService(deps ServiceDeps) Service {
	ttl := deps.SignedTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &service{docs: deps.Docs, signer: deps.Signer, mailer: deps.Mailer, ttl: ttl}
}

func (s *service) ListApplications(ctx context.Context) Listing[domain.Application] {
	return list(ctx, s.docs, domain.CollectionApplications, func(d domain.Document) (domain.Application, error) {
		a, err := domain.ApplicationFromDocument(d)
		if err != nil {
			return domain.Application{}, err
		}
		a.MedicalReportURL = s.sign(ctx, a.MedicalReportURL)
		a.IDDocumentURL = s.sign(ctx, a.IDDocumentURL)
		return *a, nil
	})
}

func (s *service) ListVolunteerApplications(ctx context.Context) Listing[domain.VolunteerApplication] {
	return list(ctx, s.docs, domain.CollectionVolunteerApplications, func(d domain.Document) (domain.VolunteerApplication, error) {
		v, err := domain.VolunteerFromDocument(d)
		if err != nil {
			return domain.VolunteerApplication{}, err
		}
		v.ResumeURL = s.sign(ctx, v.ResumeURL)
		return *v, nil
	})
}

// GetApplicationByEmail returns the first application stored under email. Which
// one is first among duplicates is up to the store.
func (s *service) GetApplicationByEmail(ctx context.Context, email string) *domain.Application {
	docs, err := s.docs.Query(ctx, domain.CollectionApplications, map[string]any{domain.FieldEmail: email}, 1)
	if err != nil {
		slog.Error("get application by email", "err", err)
		return nil
	}
	for _, d := range docs {
		if a, err := domain.ApplicationFromDocument(d); err == nil {
			return a
		}
	}
	return nil
}

func (s *service) GetVolunteerApplication(ctx context.Context, id string) *domain.VolunteerApplication {
	d, err := s.docs.Get(ctx, domain.CollectionVolunteerApplications, id)
	if err != nil {
		slog.Error("get volunteer application", "id", id, "err", err)
		return nil
	}
	if d == nil {
		return nil
	}
	v, err := domain.VolunteerFromDocument(*d)
	if err != nil {
		slog.Warn("volunteer application has no data", "id", id)
		return nil
	}
	v.ResumeURL = s.sign(ctx, v.ResumeURL)
	return v
}

// UpdateStatus stores status as given. Values are not checked against the known statuses.
func (s *service) UpdateStatus(ctx context.Context, kind domain.Kind, id, status string) bool {
	collection := kind.Collection()
	if err := s.docs.Update(ctx, collection, id, map[string]any{domain.FieldStatus: status}); err != nil {
		slog.Error("update status", "collection", collection, "id", id, "err", err)
		return false
	}
	if s.mailer != nil {
		s.notifyApplicant(ctx, kind, id, status)
	}
	return true
}

func (s *service) notifyApplicant(ctx context.Context, kind domain.Kind, id, status string) {
	d, err := s.docs.Get(ctx, kind.Collection(), id)
	if err != nil || d == nil {
		slog.Warn("status email skipped, record unavailable", "id", id, "err", err)
		return
	}
	to := d.String(domain.FieldEmail, "")
	if to == "" {
		return
	}
	subject, body := statusEmail(kind, status)
	if err := s.mailer.SendEmail(to, subject, body); err != nil {
		slog.Warn("status email failed", "id", id, "err", err)
	}
}

func statusEmail(kind domain.Kind, status string) (string, string) {
	what := "application"
	if kind == domain.KindVolunteer {
		what = "volunteer application"
	}
	subject := fmt.Sprintf("Your %s status: %s", what, status)
	body := fmt.Sprintf("Hello,\n\nThe status of your %s has been updated to %q.\n\nThank you.", what, status)
	return subject, body
}

// sign returns raw unchanged when empty. Signing failures keep the stored URL.
func (s *service) sign(ctx context.Context, raw string) string {
	if raw == "" {
		return ""
	}
	return s.signer.SignReadURL(ctx, raw, s.ttl).URL
}

// list maps every document in collection, skipping those that fail to map.
// A store failure yields an empty listing.
func list[T any](ctx context.Context, docs documentStore, collection string, mapDoc func(domain.Document) (T, error)) Listing[T] {
	out := Listing[T]{Records: []T{}}
	all, err := docs.Query(ctx, collection, nil, 0)
	if err != nil {
		slog.Error("list documents", "collection", collection, "err", err)
		return out
	}
	for _, d := range all {
		rec, err := mapDoc(d)
		if err != nil {
			slog.Warn("skipping document", "collection", collection, "id", d.ID, "err", err)
			out.Skipped = append(out.Skipped, Skip{ID: d.ID, Reason: err.Error()})
			continue
		}
		out.Records = append(out.Records, rec)
	}
	if len(out.Skipped) > 0 {
		metrics.RecordSkipped(collection, len(out.Skipped))
	}
	return out
}
