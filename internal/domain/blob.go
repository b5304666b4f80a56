package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Object folders per attachment slot.
const (
	FolderMedicalReports = "medicalReports/"
	FolderIDDocuments    = "idDocuments/"
	FolderResumes        = "resumes/"
)

// BlobRef identifies an uploaded object. URL is what gets persisted on records.
type BlobRef struct {
	Bucket string
	Object string
	URL    string
}

// SignedURL is the result of signing a stored blob URL. When signing fails, URL
// holds the original unsigned value, Signed is false and Err carries the cause.
type SignedURL struct {
	URL    string
	Signed bool
	Err    error
}

// ParseBlobURL recovers bucket and object path from a path-style object URL
// (scheme://host/{bucket}/{object}).
func ParseBlobURL(raw string) (bucket, object string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse blob url: %w", err)
	}
	p := strings.TrimPrefix(u.Path, "/")
	bucket, object, ok := strings.Cut(p, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("blob url %q has no object path: %w", raw, ErrBadRequest)
	}
	return bucket, object, nil
}
