// Package memory is an in-memory Store used as the default backend and in
// handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu      sync.Mutex
	nextID  int64
	txns    map[int64]core.Transaction
	budgets map[int64]core.Budget
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		nextID:  1,
		txns:    map[int64]core.Transaction{},
		budgets: map[int64]core.Budget{},
	}
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	t.ID = s.nextID
	s.nextID++
	t.CreatedAt = now
	t.UpdatedAt = now
	s.txns[t.ID] = t
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.txns[t.ID]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	s.txns[t.ID] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.txns, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.budgets {
		if existing.Category == b.Category && existing.Month == b.Month {
			return core.Budget{}, store.ErrDuplicateBudget
		}
	}
	now := time.Now().UTC()
	b.ID = s.nextID
	s.nextID++
	b.CreatedAt = now
	b.UpdatedAt = now
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) GetBudget(_ context.Context, id int64) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return core.Budget{}, store.ErrNotFound
	}
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.budgets[b.ID]
	if !ok {
		return core.Budget{}, store.ErrNotFound
	}
	for id, existing := range s.budgets {
		if id != b.ID && existing.Category == b.Category && existing.Month == b.Month {
			return core.Budget{}, store.ErrDuplicateBudget
		}
	}
	b.CreatedAt = old.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

func (s *Store) ListBudgets(_ context.Context, month string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		if month != "" && b.Month != month {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}
