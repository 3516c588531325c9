// Package docstore provides access to an external document store, used to
// import full page content into the meeting index.
package docstore

import "context"

// Page is one document in the external store.
type Page struct {
	ID    string
	Title string
	URL   string
}

// Store searches pages and fetches their full content. FetchContent must
// return the complete text, following pagination to the end; a truncated
// import is worse than a failed one.
type Store interface {
	Search(ctx context.Context, query string) ([]Page, error)
	FetchContent(ctx context.Context, pageID string) (string, error)
}
