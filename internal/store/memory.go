package store

import (
	"context"
	"sync"
)

// MemoryStore is a Store that never touches disk.
type MemoryStore struct {
	mu  sync.Mutex
	doc Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: NewDocument()}
}

func (s *MemoryStore) Load(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, fn func(*Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.doc.Clone()
	if err := fn(&doc); err != nil {
		return err
	}
	s.doc = doc.Clone()
	return nil
}
