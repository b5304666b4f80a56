package domain

import (
	"log/slog"
	"time"
)

// Collection names in the document store.
const (
	CollectionApplications          = "applicationForms"
	CollectionVolunteerApplications = "volunteerApplicationForms"
	CollectionNotifications         = "notifications"
	CollectionEventRegistrations    = "eventRegistrations"
)

// dateLayout is the normalized representation of stored timestamps that hold a calendar date.
const dateLayout = "2006-01-02"

// ServerTimestampValue is replaced by the document store with its own clock on write.
type ServerTimestampValue struct{}

// ServerTimestamp marks a field to be filled with the store's server time.
var ServerTimestamp = ServerTimestampValue{}

// Document is a schema-less record as returned by a document store.
type Document struct {
	ID     string
	Fields map[string]any
}

// Has reports whether the field is present.
func (d Document) Has(name string) bool {
	_, ok := d.Fields[name]
	return ok
}

// String returns the named string field, or def when the field is missing or not a string.
func (d Document) String(name, def string) string {
	v, ok := d.Fields[name]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok {
		slog.Warn("unexpected field type, using default", "doc", d.ID, "field", name, "type", typeName(v))
		return def
	}
	return s
}

// Date returns a stored timestamp as YYYY-MM-DD, a stored string unchanged, and "" otherwise.
func (d Document) Date(name string) string {
	switch v := d.Fields[name].(type) {
	case time.Time:
		return v.UTC().Format(dateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.UTC().Format(dateLayout)
	case string:
		return v
	case nil:
		return ""
	default:
		slog.Warn("unexpected date type, using empty value", "doc", d.ID, "field", name, "type", typeName(v))
		return ""
	}
}

// Bool returns the named boolean field, or def when missing or mistyped.
func (d Document) Bool(name string, def bool) bool {
	b, ok := d.Fields[name].(bool)
	if !ok {
		return def
	}
	return b
}

// Time returns a timestamp field. RFC 3339 strings are accepted for stores
// without a native timestamp type. The zero time is returned otherwise.
func (d Document) Time(name string) time.Time {
	switch v := d.Fields[name].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case int, int32, int64, float32, float64:
		return "number"
	case map[string]any:
		return "map"
	case []any:
		return "array"
	default:
		return "other"
	}
}
