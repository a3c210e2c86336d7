package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"pokemon_review/internal/domain"
)

type SeedService struct {
	source  domain.PokemonSource
	pokemon *PokemonService
}

func NewSeedService(src domain.PokemonSource, p *PokemonService) *SeedService {
	return &SeedService{source: src, pokemon: p}
}

// SeedPokemon copies one upstream Pokemon into the store. Upstream misses and
// names that already exist are skipped, not failures.
func (s *SeedService) SeedPokemon(ctx context.Context, id int) (bool, error) {
	payload, err := s.source.GetPokemon(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Int("upstream_id", id).Msg("upstream pokemon not found")
			return false, nil
		}
		return false, err
	}

	p, ok := mapPokemon(payload)
	if !ok {
		log.Warn().Int("upstream_id", id).Msg("upstream payload has no name")
		return false, nil
	}

	if _, err := s.pokemon.CreatePokemon(ctx, p.Name, p.Type); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("seed %d (%s): %w", id, p.Name, err)
	}
	return true, nil
}
