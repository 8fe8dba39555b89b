package usecase

import "redscrape/internal/domain"

// Clean returns a new table without the rows whose column value is missing,
// and how many rows were dropped. The input table is not modified. A nil
// table cleans to an empty one.
func Clean(table *domain.Table, column string) (*domain.Table, int, error) {
	if _, err := domain.CanonicalColumn(column); err != nil {
		return nil, 0, err
	}
	if table == nil {
		return domain.NewTable(nil), 0, nil
	}

	kept := make([]domain.Post, 0, table.Len())
	for _, post := range table.Posts {
		_, present, err := post.Field(column)
		if err != nil {
			return nil, 0, err
		}
		if present {
			kept = append(kept, post)
		}
	}

	return domain.NewTable(kept), table.Len() - len(kept), nil
}
