package domain

import (
	"context"
	"time"
)

type PokemonRepository interface {
	// Write paths
	CreatePokemon(ctx context.Context, p Pokemon) (Pokemon, error)
	UpdatePokemon(ctx context.Context, p Pokemon) error
	// DeletePokemon removes the Pokemon together with its reviews.
	DeletePokemon(ctx context.Context, id int64) error

	// Read paths
	GetPokemon(ctx context.Context, id int64) (Pokemon, error)
	ExistsPokemon(ctx context.Context, id int64) (bool, error)
	ExistsPokemonByName(ctx context.Context, name string) (bool, error)
	FindPokemonByName(ctx context.Context, name string) (Pokemon, error)
	ListPokemon(ctx context.Context, q PageQuery) ([]Pokemon, int64, error)
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, r Review) (Review, error)
	UpdateReview(ctx context.Context, r Review) error
	DeleteReview(ctx context.Context, id int64) error

	GetReview(ctx context.Context, id int64) (Review, error)
	ListReviewsByPokemon(ctx context.Context, pokemonID int64) ([]Review, error)
}

// NameLocker reserves a Pokemon name while a create or update is in flight.
// Acquire returns ok=false when someone else holds the reservation.
type NameLocker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// PokemonSource is an upstream catalogue used for seeding. Payloads are
// returned undecoded; the app layer maps them.
type PokemonSource interface {
	GetPokemon(ctx context.Context, id int) (map[string]any, error)
}
