package port

import "redscrape/internal/domain"

// TableWriter persists a Document Table to a path.
type TableWriter interface {
	Save(table *domain.Table, path string) error
}
