package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"redscrape/internal/domain"
	"redscrape/internal/port"
)

// ScrapeUseCase ingests top posts and exports them.
type ScrapeUseCase struct {
	source  port.PostSource
	writer  port.TableWriter
	archive port.PostStore
	log     logrus.FieldLogger
}

// NewScrapeUseCase creates a new scrape use case. archive may be nil.
func NewScrapeUseCase(source port.PostSource, writer port.TableWriter, archive port.PostStore, log logrus.FieldLogger) *ScrapeUseCase {
	return &ScrapeUseCase{
		source:  source,
		writer:  writer,
		archive: archive,
		log:     log,
	}
}

// ScrapeResult contains the results of a scrape.
type ScrapeResult struct {
	Fetched      int
	Archived     int
	ArchiveTotal int
	ExportPath   string
}

// Scrape fetches up to limit posts over timeFilter, writes them to exportPath
// and, when an archive is configured, adds them to it.
func (u *ScrapeUseCase) Scrape(ctx context.Context, timeFilter string, limit int, exportPath string, progress func(fetched int)) (*ScrapeResult, error) {
	posts, err := u.source.TopPosts(ctx, timeFilter, limit, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	u.log.WithField("posts", len(posts)).Info("fetched posts")

	result := &ScrapeResult{Fetched: len(posts), ExportPath: exportPath}

	if err := u.writer.Save(domain.NewTable(posts), exportPath); err != nil {
		return nil, fmt.Errorf("failed to export posts: %w", err)
	}

	if u.archive != nil {
		added, err := u.archive.PutPosts(posts)
		if err != nil {
			return nil, fmt.Errorf("failed to archive posts: %w", err)
		}
		total, err := u.archive.Count()
		if err != nil {
			return nil, fmt.Errorf("failed to count archive: %w", err)
		}
		result.Archived = added
		result.ArchiveTotal = total
		u.log.WithFields(logrus.Fields{"added": added, "total": total}).Info("archived posts")
	}

	return result, nil
}
