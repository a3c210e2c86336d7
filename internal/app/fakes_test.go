package app_test

import (
	"context"
	"time"

	"pokemon_review/internal/domain"
	"pokemon_review/internal/storage/memory"
)

func newFakeStore() *memory.Store { return memory.New() }

// ---- fakes ----

type fakeLocker struct {
	held map[string]bool
	err  error
}

func (l *fakeLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[name] {
		return nil, false, nil
	}
	l.held[name] = true
	return func() { delete(l.held, name) }, true, nil
}

type fakeSource struct {
	payloads map[int]map[string]any
}

func (s *fakeSource) GetPokemon(ctx context.Context, id int) (map[string]any, error) {
	p, ok := s.payloads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
