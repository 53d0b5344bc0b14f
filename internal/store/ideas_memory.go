package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/naturl/naturl/internal/ideas"
)

// IdeasMemoryStore is an in-memory implementation of ideas.Store for
// tests.
type IdeasMemoryStore struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	nextID int64
	items  map[int64]*ideas.Idea
	votes  map[string]int // "ideaID:authorID" -> delta
}

// NewIdeasMemoryStore creates an empty in-memory idea store.
func NewIdeasMemoryStore() *IdeasMemoryStore {
	return &IdeasMemoryStore{
		nextID: 1,
		items:  make(map[int64]*ideas.Idea),
		votes:  make(map[string]int),
	}
}

func (m *IdeasMemoryStore) List(_ context.Context) ([]ideas.Idea, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ideas.Idea, 0, len(m.items))
	for _, idea := range m.items {
		result = append(result, *idea)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (m *IdeasMemoryStore) Insert(_ context.Context, idea *ideas.Idea) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idea.ID = m.nextID
	m.nextID++

	stored := *idea
	m.items[idea.ID] = &stored

	return nil
}

func (m *IdeasMemoryStore) Get(_ context.Context, id int64) (*ideas.Idea, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idea, ok := m.items[id]
	if !ok {
		return nil, ideas.ErrIdeaNotFound
	}

	copied := *idea

	return &copied, nil
}

func (m *IdeasMemoryStore) GetVote(_ context.Context, ideaID int64, authorID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	delta, ok := m.votes[voteKey(ideaID, authorID)]
	if !ok {
		return 0, ideas.ErrVoteNotFound
	}

	return delta, nil
}

func (m *IdeasMemoryStore) SetVote(_ context.Context, ideaID int64, authorID string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.votes[voteKey(ideaID, authorID)] = delta

	return nil
}

func (m *IdeasMemoryStore) AddVotes(_ context.Context, ideaID int64, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idea, ok := m.items[ideaID]
	if !ok {
		return 0, ideas.ErrIdeaNotFound
	}

	idea.Votes += delta

	return idea.Votes, nil
}

func (m *IdeasMemoryStore) InTx(_ context.Context, fn func(ideas.Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	return fn(m)
}

func voteKey(ideaID int64, authorID string) string {
	return fmt.Sprintf("%d:%s", ideaID, authorID)
}

var _ ideas.Store = (*IdeasMemoryStore)(nil)
