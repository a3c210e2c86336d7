package memory_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokemon_review/internal/domain"
	"pokemon_review/internal/storage/memory"
)

func TestStore_PokemonUniqueness(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	a, err := s.CreatePokemon(ctx, domain.Pokemon{Name: "Onix", Type: "rock"})
	require.NoError(t, err)
	b, err := s.CreatePokemon(ctx, domain.Pokemon{Name: "Geodude", Type: "rock"})
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)

	_, err = s.CreatePokemon(ctx, domain.Pokemon{Name: "Onix"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	b.Name = "Onix"
	require.ErrorIs(t, s.UpdatePokemon(ctx, b), domain.ErrAlreadyExists)

	a.Type = "steel"
	require.NoError(t, s.UpdatePokemon(ctx, a))

	found, err := s.FindPokemonByName(ctx, "Onix")
	require.NoError(t, err)
	assert.Equal(t, "steel", found.Type)

	require.ErrorIs(t, s.UpdatePokemon(ctx, domain.Pokemon{ID: 404, Name: "x"}), domain.ErrNotFound)
}

func TestStore_ListPokemon(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	for i := 0; i < 7; i++ {
		typ := "water"
		if i%2 == 0 {
			typ = "ice"
		}
		_, err := s.CreatePokemon(ctx, domain.Pokemon{Name: fmt.Sprintf("p%d", i), Type: typ})
		require.NoError(t, err)
	}

	items, total, err := s.ListPokemon(ctx, domain.PageQuery{PageNo: 1, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, items, 3)
	assert.Equal(t, "p3", items[0].Name)

	items, total, err = s.ListPokemon(ctx, domain.PageQuery{PageNo: 5, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Empty(t, items)

	items, total, err = s.ListPokemon(ctx, domain.PageQuery{PageNo: 0, PageSize: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, items, 7)

	items, _, err = s.ListPokemon(ctx, domain.PageQuery{PageNo: math.MaxInt/2 + 1, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, items)

	items, total, err = s.ListPokemon(ctx, domain.PageQuery{PageSize: 10, Type: "ice"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, items, 4)
}

func TestStore_ReviewsCascade(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	p, err := s.CreatePokemon(ctx, domain.Pokemon{Name: "Lapras", Type: "water"})
	require.NoError(t, err)

	_, err = s.CreateReview(ctx, domain.Review{PokemonID: 999, Title: "orphan", Stars: 1})
	require.ErrorIs(t, err, domain.ErrNotFound)

	r, err := s.CreateReview(ctx, domain.Review{PokemonID: p.ID, Title: "Calm", Stars: 5})
	require.NoError(t, err)

	// owner is fixed at creation
	require.NoError(t, s.UpdateReview(ctx, domain.Review{ID: r.ID, PokemonID: 999, Title: "Calmer", Stars: 4}))
	got, err := s.GetReview(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.PokemonID)
	assert.Equal(t, "Calmer", got.Title)

	require.NoError(t, s.DeletePokemon(ctx, p.ID))
	_, err = s.GetReview(ctx, r.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := s.ListReviewsByPokemon(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
