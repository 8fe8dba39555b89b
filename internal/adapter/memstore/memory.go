package memstore

import (
	"sync"

	"redscrape/internal/domain"
)

// MemoryStore is a PostStore that lives for the process only.
type MemoryStore struct {
	mu    sync.RWMutex
	posts []domain.Post
	index map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
	}
}

func (s *MemoryStore) PutPosts(posts []domain.Post) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, p := range posts {
		if p.ID != "" {
			if i, ok := s.index[p.ID]; ok {
				s.posts[i] = p
				continue
			}
			s.index[p.ID] = len(s.posts)
		}
		s.posts = append(s.posts, p)
		added++
	}
	return added, nil
}

func (s *MemoryStore) ListPosts() ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posts := make([]domain.Post, len(s.posts))
	copy(posts, s.posts)
	return posts, nil
}

func (s *MemoryStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
