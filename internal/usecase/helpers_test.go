package usecase

import (
	"io"

	"github.com/sirupsen/logrus"
	"redscrape/internal/adapter/analyzer"
	"redscrape/internal/domain"
)

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func titles(values ...string) *domain.Table {
	posts := make([]domain.Post, len(values))
	for i, v := range values {
		posts[i] = domain.Post{Title: v}
	}
	return domain.NewTable(posts)
}

func authors(values ...*string) *domain.Table {
	posts := make([]domain.Post, len(values))
	for i, v := range values {
		posts[i] = domain.Post{Title: "post", Author: v}
	}
	return domain.NewTable(posts)
}

func newCountUseCase(splitIdentities bool) *CountUseCase {
	return NewCountUseCase(analyzer.NewTokenizer(), analyzer.NewStopwordFilter(), nil, splitIdentities, discardLogger())
}
