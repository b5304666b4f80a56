package id

import "github.com/oklog/ulid/v2"

// New returns a ULID for documents on stores without server-assigned IDs.
// IDs from one process sort by creation time, including within a millisecond.
func New() string {
	return ulid.Make().String()
}
