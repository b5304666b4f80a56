package submission

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/intake-dal/internal/domain"
	"github.com/intake-dal/internal/infrastructure/metrics"
	"github.com/intake-dal/internal/pkg/validate"
)

// Attachment is one uploaded file. A nil attachment or one with Size <= 0 is skipped.
type Attachment struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Service interface {
	SubmitApplication(ctx context.Context, form domain.ApplicationForm, medicalReport, idDocument *Attachment) bool
	SubmitVolunteer(ctx context.Context, form domain.VolunteerForm, resume *Attachment) bool
}

type blobStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (domain.BlobRef, error)
}

type documentStore interface {
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
}

type service struct {
	blobs    blobStore
	docs     documentStore
	newToken func() string
}

type ServiceDeps struct {
	Blobs    blobStore
	Docs     documentStore
	NewToken func() string // defaults to a random UUID
}

func NewService(deps ServiceDeps) Service {
	s := &service{blobs: deps.Blobs, docs: deps.Docs, newToken: deps.NewToken}
	if s.newToken == nil {
		s.newToken = uuid.NewString
	}
	return s
}

func (s *service) SubmitApplication(ctx context.Context, form domain.ApplicationForm, medicalReport, idDocument *Attachment) bool {
	err := s.submit(ctx, domain.KindApplicant, &form, func(up *uploader) (map[string]any, error) {
		medURL, err := up.put(domain.FolderMedicalReports, medicalReport)
		if err != nil {
			return nil, err
		}
		idURL, err := up.put(domain.FolderIDDocuments, idDocument)
		if err != nil {
			return nil, err
		}
		return domain.NewApplicationFields(form, medURL, idURL), nil
	})
	return err == nil
}

func (s *service) SubmitVolunteer(ctx context.Context, form domain.VolunteerForm, resume *Attachment) bool {
	err := s.submit(ctx, domain.KindVolunteer, &form, func(up *uploader) (map[string]any, error) {
		resumeURL, err := up.put(domain.FolderResumes, resume)
		if err != nil {
			return nil, err
		}
		return domain.NewVolunteerFields(form, resumeURL), nil
	})
	return err == nil
}

// submit validates, uploads, then creates the record. Objects uploaded before a
// failure are left in place and logged for out-of-band cleanup.
func (s *service) submit(ctx context.Context, kind domain.Kind, form any, build func(*uploader) (map[string]any, error)) (err error) {
	up := &uploader{ctx: ctx, svc: s}
	defer func() {
		metrics.RecordSubmission(string(kind), err == nil)
		if err != nil {
			slog.Error("submission failed", "kind", kind, "err", err, "orphaned_objects", up.uploaded)
		}
	}()

	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	fields, err := build(up)
	if err != nil {
		return err
	}
	docID, err := s.docs.Create(ctx, kind.Collection(), fields)
	if err != nil {
		return err
	}
	slog.Info("submission stored", "kind", kind, "id", docID)
	return nil
}

type uploader struct {
	ctx      context.Context
	svc      *service
	uploaded []string
}

// put uploads one attachment and returns its stored URL, or "" when there is nothing to upload.
func (u *uploader) put(folder string, a *Attachment) (string, error) {
	if a == nil || a.Reader == nil || a.Size <= 0 {
		return "", nil
	}
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectPath := folder + u.svc.newToken() + "_" + sanitizeFilename(a.Filename)
	ref, err := u.svc.blobs.Upload(u.ctx, objectPath, contentType, a.Reader)
	if err != nil {
		return "", err
	}
	u.uploaded = append(u.uploaded, ref.Object)
	return ref.URL, nil
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in object names.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." && result != ".." {
		return result
	}
	return "_"
}
