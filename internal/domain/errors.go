package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Gateways wrap these so services and handlers can classify failures without leaking infrastructure details.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrStorage       = errors.New("storage error")
	ErrDocumentStore = errors.New("document store error")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrBadRequest    = errors.New("bad request")
)
