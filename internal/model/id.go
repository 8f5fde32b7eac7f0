package model

import "github.com/oklog/ulid/v2"

// NewID returns a 26-character ULID. ULIDs are globally unique, lexically
// sortable and time-ordered, so primary keys double as a stable creation
// order for pagination.
func NewID() string {
	return ulid.Make().String()
}
