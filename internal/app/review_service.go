package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"pokemon_review/internal/domain"
)

type ReviewService struct {
	pokemon domain.PokemonRepository
	reviews domain.ReviewRepository
}

func NewReviewService(p domain.PokemonRepository, r domain.ReviewRepository) *ReviewService {
	return &ReviewService{pokemon: p, reviews: r}
}

func (s *ReviewService) CreateReview(ctx context.Context, pokemonID int64, title, content string, stars int) (r domain.Review, err error) {
	defer func() { observe("create_review", err) }()

	if err := validStars(stars); err != nil {
		return domain.Review{}, err
	}
	if err := s.ensurePokemon(ctx, pokemonID); err != nil {
		return domain.Review{}, err
	}

	r, err = s.reviews.CreateReview(ctx, domain.Review{
		PokemonID: pokemonID,
		Title:     title,
		Content:   content,
		Stars:     stars,
	})
	if err != nil {
		return domain.Review{}, err
	}

	log.Info().Int64("id", r.ID).Int64("pokemon_id", pokemonID).Msg("review created")
	return r, nil
}

// ListReviewsByPokemonID returns an empty slice for a Pokemon without
// reviews; only a missing Pokemon is ErrNotFound.
func (s *ReviewService) ListReviewsByPokemonID(ctx context.Context, pokemonID int64) (out []domain.Review, err error) {
	defer func() { observe("list_reviews", err) }()

	if err := s.ensurePokemon(ctx, pokemonID); err != nil {
		return nil, err
	}
	out, err = s.reviews.ListReviewsByPokemon(ctx, pokemonID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Review{}
	}
	return out, nil
}

func (s *ReviewService) GetReview(ctx context.Context, pokemonID, reviewID int64) (r domain.Review, err error) {
	defer func() { observe("get_review", err) }()
	return s.owned(ctx, pokemonID, reviewID)
}

// UpdateReview overwrites title, content and stars. The owner never changes.
func (s *ReviewService) UpdateReview(ctx context.Context, pokemonID, reviewID int64, title, content string, stars int) (r domain.Review, err error) {
	defer func() { observe("update_review", err) }()

	if err := validStars(stars); err != nil {
		return domain.Review{}, err
	}
	r, err = s.owned(ctx, pokemonID, reviewID)
	if err != nil {
		return domain.Review{}, err
	}

	r.Title = title
	r.Content = content
	r.Stars = stars
	if err := s.reviews.UpdateReview(ctx, r); err != nil {
		return domain.Review{}, notFound(err, "review id %d", reviewID)
	}

	log.Info().Int64("id", reviewID).Int64("pokemon_id", pokemonID).Msg("review updated")
	return r, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, pokemonID, reviewID int64) (err error) {
	defer func() { observe("delete_review", err) }()

	if _, err := s.owned(ctx, pokemonID, reviewID); err != nil {
		return err
	}
	if err := s.reviews.DeleteReview(ctx, reviewID); err != nil {
		return notFound(err, "review id %d", reviewID)
	}

	log.Info().Int64("id", reviewID).Int64("pokemon_id", pokemonID).Msg("review deleted")
	return nil
}

// owned loads a review addressed through its Pokemon. A review owned by a
// different Pokemon is reported as not found.
func (s *ReviewService) owned(ctx context.Context, pokemonID, reviewID int64) (domain.Review, error) {
	if err := s.ensurePokemon(ctx, pokemonID); err != nil {
		return domain.Review{}, err
	}
	r, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return domain.Review{}, notFound(err, "review id %d", reviewID)
	}
	if !r.BelongsTo(pokemonID) {
		log.Error().Int64("id", reviewID).Int64("pokemon_id", pokemonID).Msg("review belongs to another pokemon")
		return domain.Review{}, fmt.Errorf("review id %d does not belong to pokemon id %d: %w", reviewID, pokemonID, domain.ErrNotFound)
	}
	return r, nil
}

func (s *ReviewService) ensurePokemon(ctx context.Context, id int64) error {
	ok, err := s.pokemon.ExistsPokemon(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		log.Error().Int64("pokemon_id", id).Msg("pokemon not found")
		return fmt.Errorf("pokemon id %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func validStars(stars int) error {
	if stars < domain.MinStars || stars > domain.MaxStars {
		return fmt.Errorf("stars must be between %d and %d: %w", domain.MinStars, domain.MaxStars, domain.ErrInvalidArgument)
	}
	return nil
}
