package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"redscrape/internal/domain"
)

var (
	bucketPosts   = []byte("posts")
	bucketPostIDs = []byte("post_ids")
	bucketMeta    = []byte("meta")
	keyLastScrape = []byte("last_scrape")
)

// BoltStore archives ingested posts. Posts are keyed by a monotonically
// increasing sequence so iteration yields ingestion order; post_ids maps a
// post id to its sequence key for in-place updates.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketPosts, bucketPostIDs, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type postRecord struct {
	ID      string  `json:"id,omitempty"`
	Title   string  `json:"title"`
	Score   int     `json:"score"`
	Created int64   `json:"created_utc"`
	Flair   *string `json:"flair,omitempty"`
	Body    string  `json:"selftext,omitempty"`
	Author  *string `json:"author,omitempty"`
}

func toRecord(p domain.Post) postRecord {
	rec := postRecord{
		ID:     p.ID,
		Title:  p.Title,
		Score:  p.Score,
		Flair:  p.Flair,
		Body:   p.Body,
		Author: p.Author,
	}
	if !p.Created.IsZero() {
		rec.Created = p.Created.Unix()
	}
	return rec
}

func (r postRecord) post() domain.Post {
	p := domain.Post{
		ID:     r.ID,
		Title:  r.Title,
		Score:  r.Score,
		Flair:  r.Flair,
		Body:   r.Body,
		Author: r.Author,
	}
	if r.Created != 0 {
		p.Created = time.Unix(r.Created, 0).UTC()
	}
	return p
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func (s *BoltStore) PutPosts(posts []domain.Post) (int, error) {
	added := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		postsBucket := tx.Bucket(bucketPosts)
		idsBucket := tx.Bucket(bucketPostIDs)

		for _, p := range posts {
			data, err := json.Marshal(toRecord(p))
			if err != nil {
				return err
			}

			var key []byte
			if p.ID != "" {
				if existing := idsBucket.Get([]byte(p.ID)); existing != nil {
					key = append([]byte(nil), existing...)
				}
			}
			if key == nil {
				seq, err := postsBucket.NextSequence()
				if err != nil {
					return err
				}
				key = seqKey(seq)
				added++
				if p.ID != "" {
					if err := idsBucket.Put([]byte(p.ID), key); err != nil {
						return err
					}
				}
			}

			if err := postsBucket.Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func (s *BoltStore) ListPosts() ([]domain.Post, error) {
	var posts []domain.Post
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPosts).ForEach(func(k, v []byte) error {
			var rec postRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt post record %x: %w", k, err)
			}
			posts = append(posts, rec.post())
			return nil
		})
	})
	return posts, err
}

func (s *BoltStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketPosts).Stats().KeyN
		return nil
	})
	return n, err
}

// SetLastScrape records when the archive was last refreshed.
func (s *BoltStore) SetLastScrape(t time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := t.UTC().MarshalText()
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyLastScrape, data)
	})
}

// LastScrape returns the zero time if the archive was never refreshed.
func (s *BoltStore) LastScrape() (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyLastScrape)
		if data == nil {
			return nil
		}
		return t.UnmarshalText(data)
	})
	return t, err
}

// Load reads the whole archive as a Document Table.
func (s *BoltStore) Load() (*domain.Table, error) {
	posts, err := s.ListPosts()
	if err != nil {
		return nil, err
	}
	return domain.NewTable(posts), nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
