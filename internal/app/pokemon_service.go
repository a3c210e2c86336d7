package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pokemon_review/internal/domain"
)

type PokemonService struct {
	repo    domain.PokemonRepository
	locker  domain.NameLocker
	lockTTL time.Duration
}

// NewPokemonService wires the service. l may be nil, in which case names are
// guarded only by the store's unique index.
func NewPokemonService(r domain.PokemonRepository, l domain.NameLocker, lockTTL time.Duration) *PokemonService {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &PokemonService{repo: r, locker: l, lockTTL: lockTTL}
}

func (s *PokemonService) CreatePokemon(ctx context.Context, name, typ string) (p domain.Pokemon, err error) {
	defer func() { observe("create_pokemon", err) }()

	if strings.TrimSpace(name) == "" {
		return domain.Pokemon{}, fmt.Errorf("pokemon name is required: %w", domain.ErrInvalidArgument)
	}

	release, err := s.reserveName(ctx, name)
	if err != nil {
		return domain.Pokemon{}, err
	}
	defer release()

	exists, err := s.repo.ExistsPokemonByName(ctx, name)
	if err != nil {
		return domain.Pokemon{}, err
	}
	if exists {
		log.Error().Str("name", name).Msg("pokemon name already exists")
		return domain.Pokemon{}, fmt.Errorf("pokemon name '%s': %w", name, domain.ErrAlreadyExists)
	}

	// The unique index is authoritative; a lost race surfaces as ErrAlreadyExists here too.
	p, err = s.repo.CreatePokemon(ctx, domain.Pokemon{Name: name, Type: typ})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.Pokemon{}, fmt.Errorf("pokemon name '%s': %w", name, domain.ErrAlreadyExists)
		}
		return domain.Pokemon{}, err
	}

	log.Info().Int64("id", p.ID).Str("name", p.Name).Msg("pokemon created")
	return p, nil
}

func (s *PokemonService) ListPokemon(ctx context.Context, q domain.PageQuery) (page domain.PokemonPage, err error) {
	defer func() { observe("list_pokemon", err) }()

	if q.PageNo < 0 {
		return domain.PokemonPage{}, fmt.Errorf("pageNo must be >= 0: %w", domain.ErrInvalidArgument)
	}
	if q.PageSize <= 0 {
		return domain.PokemonPage{}, fmt.Errorf("pageSize must be > 0: %w", domain.ErrInvalidArgument)
	}
	if !q.OffsetFits() {
		return domain.PokemonPage{}, fmt.Errorf("pageNo %d is out of range for pageSize %d: %w", q.PageNo, q.PageSize, domain.ErrInvalidArgument)
	}

	items, total, err := s.repo.ListPokemon(ctx, q)
	if err != nil {
		return domain.PokemonPage{}, err
	}
	return domain.NewPokemonPage(items, q, total), nil
}

func (s *PokemonService) GetPokemonByID(ctx context.Context, id int64) (p domain.Pokemon, err error) {
	defer func() { observe("get_pokemon", err) }()

	p, err = s.repo.GetPokemon(ctx, id)
	if err != nil {
		return domain.Pokemon{}, notFound(err, "pokemon id %d", id)
	}
	return p, nil
}

func (s *PokemonService) UpdatePokemon(ctx context.Context, id int64, name, typ string) (p domain.Pokemon, err error) {
	defer func() { observe("update_pokemon", err) }()

	if strings.TrimSpace(name) == "" {
		return domain.Pokemon{}, fmt.Errorf("pokemon name is required: %w", domain.ErrInvalidArgument)
	}

	p, err = s.repo.GetPokemon(ctx, id)
	if err != nil {
		return domain.Pokemon{}, notFound(err, "pokemon id %d", id)
	}

	if p.Name != name {
		release, err := s.reserveName(ctx, name)
		if err != nil {
			return domain.Pokemon{}, err
		}
		defer release()

		other, err := s.repo.FindPokemonByName(ctx, name)
		switch {
		case err == nil && other.ID != id:
			log.Error().Str("name", name).Int64("id", id).Msg("pokemon name already taken")
			return domain.Pokemon{}, fmt.Errorf("pokemon with name '%s': %w", name, domain.ErrAlreadyExists)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return domain.Pokemon{}, err
		}
	}

	p.Name = name
	p.Type = typ
	if err := s.repo.UpdatePokemon(ctx, p); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.Pokemon{}, fmt.Errorf("pokemon with name '%s': %w", name, domain.ErrAlreadyExists)
		}
		return domain.Pokemon{}, notFound(err, "pokemon id %d", id)
	}

	log.Info().Int64("id", id).Str("name", name).Msg("pokemon updated")
	return p, nil
}

// DeletePokemonByID removes the Pokemon and, with it, all of its reviews.
func (s *PokemonService) DeletePokemonByID(ctx context.Context, id int64) (err error) {
	defer func() { observe("delete_pokemon", err) }()

	ok, err := s.repo.ExistsPokemon(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		log.Error().Int64("id", id).Msg("pokemon not found")
		return fmt.Errorf("pokemon id %d: %w", id, domain.ErrNotFound)
	}
	if err := s.repo.DeletePokemon(ctx, id); err != nil {
		return notFound(err, "pokemon id %d", id)
	}

	log.Info().Int64("id", id).Msg("pokemon deleted")
	return nil
}

// reserveName takes the cross-replica reservation for name. A locker outage
// is logged and tolerated: the unique index still rejects duplicates.
func (s *PokemonService) reserveName(ctx context.Context, name string) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}
	release, ok, err := s.locker.Acquire(ctx, name, s.lockTTL)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("name reservation unavailable")
		return noop, nil
	}
	if !ok {
		return noop, fmt.Errorf("pokemon name '%s' is being claimed: %w", name, domain.ErrAlreadyExists)
	}
	return release, nil
}

// notFound decorates ErrNotFound with the lookup that failed and passes any
// other error through untouched.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, domain.ErrNotFound) {
		msg := fmt.Sprintf(format, args...)
		log.Error().Msg(msg + " not found")
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	}
	return err
}
