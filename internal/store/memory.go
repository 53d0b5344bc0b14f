package store

import (
	"context"
	"sync"

	"github.com/naturl/naturl/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Store for
// tests. InTx serializes transactions with a coarse mutex, which gives
// the same observable behavior as the database's isolation for the
// allocation paths exercised in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	links map[shortener.Code]*shortener.Link
	byURL map[string]shortener.Code // non-custom rows only
}

// NewMemoryStore creates an empty in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[shortener.Code]*shortener.Link),
		byURL: make(map[string]shortener.Code),
	}
}

func (m *MemoryStore) FindByURL(_ context.Context, url string) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.byURL[url]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return copyLink(m.links[code]), nil
}

func (m *MemoryStore) FindByCode(_ context.Context, code shortener.Code) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return copyLink(link), nil
}

func (m *MemoryStore) Insert(_ context.Context, link *shortener.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.Code]; exists {
		return shortener.ErrCodeTaken
	}

	if !link.IsCustom {
		if _, exists := m.byURL[link.OriginalURL]; exists {
			return shortener.ErrURLTaken
		}

		m.byURL[link.OriginalURL] = link.Code
	}

	m.links[link.Code] = copyLink(link)

	return nil
}

func (m *MemoryStore) CountLinks(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.links)), nil
}

func (m *MemoryStore) AllCodes(_ context.Context, fn func(shortener.Code) error) error {
	m.mu.RLock()
	codes := make([]shortener.Code, 0, len(m.links))

	for code := range m.links {
		codes = append(codes, code)
	}
	m.mu.RUnlock()

	for _, code := range codes {
		if err := fn(code); err != nil {
			return err
		}
	}

	return nil
}

func (m *MemoryStore) InTx(_ context.Context, fn func(shortener.Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	return fn(m)
}

func copyLink(link *shortener.Link) *shortener.Link {
	copied := *link

	return &copied
}

var _ shortener.Store = (*MemoryStore)(nil)
