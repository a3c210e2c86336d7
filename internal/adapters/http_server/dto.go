package httpserver

import "pokemon_review/internal/domain"

// ---- requests ----

type pokemonRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Type string `json:"type" validate:"max=64"`
}

type reviewRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"max=16000"` // fits TEXT at 4 bytes per rune
	Stars   int    `json:"stars" validate:"min=1,max=5"`
}

// ---- responses ----

type pokemonDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type reviewDTO struct {
	ID        int64  `json:"id"`
	PokemonID int64  `json:"pokemonId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Stars     int    `json:"stars"`
}

type pokemonPageDTO struct {
	Content       []pokemonDTO `json:"content"`
	PageNo        int          `json:"pageNo"`
	PageSize      int          `json:"pageSize"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
	Last          bool         `json:"last"`
}

type successResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ---- mapping ----

func toPokemonDTO(p domain.Pokemon) pokemonDTO {
	return pokemonDTO{ID: p.ID, Name: p.Name, Type: p.Type}
}

func toReviewDTO(r domain.Review) reviewDTO {
	return reviewDTO{ID: r.ID, PokemonID: r.PokemonID, Title: r.Title, Content: r.Content, Stars: r.Stars}
}

func toReviewDTOs(rs []domain.Review) []reviewDTO {
	out := make([]reviewDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReviewDTO(r))
	}
	return out
}

func toPokemonPageDTO(p domain.PokemonPage) pokemonPageDTO {
	content := make([]pokemonDTO, 0, len(p.Items))
	for _, it := range p.Items {
		content = append(content, toPokemonDTO(it))
	}
	return pokemonPageDTO{
		Content:       content,
		PageNo:        p.PageNo,
		PageSize:      p.PageSize,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Last:          p.Last,
	}
}
