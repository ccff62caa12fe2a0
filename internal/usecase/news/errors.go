// Package news provides use cases for the site's news posts: public listing,
// admin listing including drafts, lookup by id or slug, creation and partial update.
package news

import "errors"

// Sentinel errors for news use case operations.
var (
	// ErrNotFound indicates that the post does not exist, or that it is
	// unpublished and the caller may not see drafts.
	ErrNotFound = errors.New("news post not found")

	// ErrInvalidID indicates that the provided post ID is not a positive integer.
	ErrInvalidID = errors.New("invalid news post ID")

	// ErrDuplicateSlug indicates that another post already derives the same slug.
	ErrDuplicateSlug = errors.New("a news post with this slug already exists")
)
