package port

import "redscrape/internal/domain"

// PostStore archives ingested posts keyed by post id.
type PostStore interface {
	// PutPosts inserts new posts and updates already archived ones in place,
	// keeping their original position. It returns how many were new.
	PutPosts(posts []domain.Post) (int, error)

	// ListPosts returns every archived post in ingestion order.
	ListPosts() ([]domain.Post, error)

	Count() (int, error)

	Close() error
}
