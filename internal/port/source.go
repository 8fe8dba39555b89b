package port

import (
	"context"

	"redscrape/internal/domain"
)

// PostSource fetches posts from the community feed.
type PostSource interface {
	// TopPosts returns up to limit top-ranked posts over the given time window.
	// progress, when non-nil, is called after every fetched page.
	TopPosts(ctx context.Context, timeFilter string, limit int, progress func(fetched int)) ([]domain.Post, error)
}
