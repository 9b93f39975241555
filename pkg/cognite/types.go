package cognite

// CursorResponse is the common CDF collection-endpoint response shape:
// a page of items plus an optional cursor for the next page.
type CursorResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// AsPage adapts a decoded CursorResponse into the Page type FilterAll and
// friends operate on.
func (r CursorResponse[T]) AsPage() Page[T] {
	return Page[T]{Items: r.Items, NextCursor: r.NextCursor}
}

// Metadata is the free-form string-to-string bag CDF resources commonly
// carry alongside their typed fields.
type Metadata map[string]string
