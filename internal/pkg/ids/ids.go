package ids

import "github.com/oklog/ulid/v2"

// New returns a lexicographically sortable unique identifier.
// ULIDs sort by creation time, which keeps newest-first listings cheap.
func New() string {
	return ulid.Make().String()
}
