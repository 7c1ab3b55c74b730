package models

var (
	pagingFields       = []string{"href", "items", "limit", "offset", "total"}
	cursorPagingFields = []string{"href", "items", "limit"}
)

// Paging is the offset-based envelope the API wraps list results in.
//
// Next and Previous are absolute URLs, nil on the last and first page.
type Paging[T any] struct {
	Href     string  `json:"href"`
	Items    []T     `json:"items"`
	Limit    int     `json:"limit"`
	Next     *string `json:"next"`
	Offset   int     `json:"offset"`
	Previous *string `json:"previous"`
	Total    int     `json:"total"`
}

type pagingWire[T any] Paging[T]

func (p *Paging[T]) UnmarshalJSON(data []byte) error {
	return decodeObject(data, (*pagingWire[T])(p), "paging", pagingFields)
}

// HasNext reports whether another page follows this one.
func (p *Paging[T]) HasNext() bool {
	return p != nil && p.Next != nil && *p.Next != ""
}

// HasPrevious reports whether a page precedes this one.
func (p *Paging[T]) HasPrevious() bool {
	return p != nil && p.Previous != nil && *p.Previous != ""
}

// Cursor marks the position of a [CursorPaging] page.
type Cursor struct {
	After  *string `json:"after,omitempty"`
	Before *string `json:"before,omitempty"`
}

// CursorPaging is the cursor-based envelope used by the followed-artists endpoint.
type CursorPaging[T any] struct {
	Cursors Cursor  `json:"cursors"`
	Href    string  `json:"href"`
	Items   []T     `json:"items"`
	Limit   int     `json:"limit"`
	Next    *string `json:"next"`
	Total   *int    `json:"total,omitempty"`
}

type cursorPagingWire[T any] CursorPaging[T]

func (p *CursorPaging[T]) UnmarshalJSON(data []byte) error {
	return decodeObject(data, (*cursorPagingWire[T])(p), "cursor paging", cursorPagingFields)
}
