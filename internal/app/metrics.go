package app

import (
	"errors"

	"pokemon_review/internal/adapters/observability"
	"pokemon_review/internal/domain"
)

func observe(op string, err error) {
	observability.ObserveOp(op, outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "error"
	}
}
