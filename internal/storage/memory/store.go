package memory

import (
	"context"
	"sort"
	"sync"

	"pokemon_review/internal/domain"
)

// Store is a process-local record store for development and tests. It
// enforces the same name uniqueness and delete cascade as the MySQL schema.
type Store struct {
	mu          sync.Mutex
	lastPokemon int64
	lastReview  int64
	pokemon     map[int64]domain.Pokemon
	reviews     map[int64]domain.Review
}

func New() *Store {
	return &Store{pokemon: map[int64]domain.Pokemon{}, reviews: map[int64]domain.Review{}}
}

// nameTaken must be called with mu held.
func (s *Store) nameTaken(name string, except int64) bool {
	for id, p := range s.pokemon {
		if p.Name == name && id != except {
			return true
		}
	}
	return false
}

// ---- pokemon ----

func (s *Store) CreatePokemon(ctx context.Context, p domain.Pokemon) (domain.Pokemon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(p.Name, 0) {
		return domain.Pokemon{}, domain.ErrAlreadyExists
	}
	s.lastPokemon++
	p.ID = s.lastPokemon
	s.pokemon[p.ID] = p
	return p, nil
}

func (s *Store) UpdatePokemon(ctx context.Context, p domain.Pokemon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pokemon[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if s.nameTaken(p.Name, p.ID) {
		return domain.ErrAlreadyExists
	}
	s.pokemon[p.ID] = p
	return nil
}

func (s *Store) DeletePokemon(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pokemon[id]; !ok {
		return domain.ErrNotFound
	}
	for rid, r := range s.reviews {
		if r.PokemonID == id {
			delete(s.reviews, rid)
		}
	}
	delete(s.pokemon, id)
	return nil
}

func (s *Store) GetPokemon(ctx context.Context, id int64) (domain.Pokemon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pokemon[id]
	if !ok {
		return domain.Pokemon{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *Store) ExistsPokemon(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pokemon[id]
	return ok, nil
}

func (s *Store) ExistsPokemonByName(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nameTaken(name, 0), nil
}

func (s *Store) FindPokemonByName(ctx context.Context, name string) (domain.Pokemon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pokemon {
		if p.Name == name {
			return p, nil
		}
	}
	return domain.Pokemon{}, domain.ErrNotFound
}

func (s *Store) ListPokemon(ctx context.Context, q domain.PageQuery) ([]domain.Pokemon, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]domain.Pokemon, 0, len(s.pokemon))
	for _, p := range s.pokemon {
		if q.Type != "" && p.Type != q.Type {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	lo := len(all)
	if q.OffsetFits() {
		lo = min(q.Offset(), len(all))
	}
	hi := lo + min(q.PageSize, len(all)-lo)
	out := make([]domain.Pokemon, hi-lo)
	copy(out, all[lo:hi])
	return out, int64(len(all)), nil
}

// ---- reviews ----

func (s *Store) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pokemon[r.PokemonID]; !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	s.lastReview++
	r.ID = s.lastReview
	s.reviews[r.ID] = r
	return r, nil
}

// UpdateReview keeps the stored owner whatever r.PokemonID says.
func (s *Store) UpdateReview(ctx context.Context, r domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.reviews[r.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Title, cur.Content, cur.Stars = r.Title, r.Content, r.Stars
	s.reviews[r.ID] = cur
	return nil
}

func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *Store) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return r, nil
}

func (s *Store) ListReviewsByPokemon(ctx context.Context, pokemonID int64) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Review{}
	for _, r := range s.reviews {
		if r.PokemonID == pokemonID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
