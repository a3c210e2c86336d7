// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"pokemon_review/internal/app"
	"pokemon_review/internal/domain"
)

type Handlers struct {
	Pokemon         *app.PokemonService
	Reviews         *app.ReviewService
	DefaultPageSize int
}

var validate = validator.New()

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api/pokemon", func(r chi.Router) {
		r.Get("/", h.listPokemon)
		r.Post("/create", h.createPokemon)

		r.Route("/{pokemonId}", func(r chi.Router) {
			r.Get("/", h.getPokemon)
			r.Put("/update", h.updatePokemon)
			r.Delete("/delete", h.deletePokemon)

			r.Get("/reviews", h.listReviews)
			r.Post("/reviews", h.createReview)
			r.Get("/reviews/{reviewId}", h.getReview)
			r.Put("/reviews/{reviewId}", h.updateReview)
			r.Delete("/reviews/{reviewId}", h.deleteReview)
		})
	})
}

// ---- response helpers ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, errorResponse{Status: status, Message: message, Error: detail})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeCached answers a GET with an ETag and honours If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "could not encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// fail maps a service error kind to its HTTP status. Unknown errors are
// logged and answered with a generic 500.
func fail(w http.ResponseWriter, r *http.Request, err error, notFound, conflict string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, conflict, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
	}
}

// ---- request helpers ----

func pathID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// decode reads and validates a JSON body, answering 400 (or 413) itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "Invalid request", fmt.Sprintf("body exceeds %d bytes", tooBig.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "malformed JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return false
	}
	return true
}

// ---- pokemon ----

func (h *Handlers) listPokemon(w http.ResponseWriter, r *http.Request) {
	pageNo, err := queryInt(r, "pageNo", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	pageSize, err := queryInt(r, "pageSize", h.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	page, err := h.Pokemon.ListPokemon(r.Context(), domain.PageQuery{
		PageNo:   pageNo,
		PageSize: pageSize,
		Type:     r.URL.Query().Get("type"),
	})
	if err != nil {
		fail(w, r, err, "Pokemon does not exist", "Conflict with existing Pokemon")
		return
	}
	writeCached(w, r, toPokemonPageDTO(page))
}

func (h *Handlers) getPokemon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "pokemonId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	p, err := h.Pokemon.GetPokemonByID(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Pokemon does not exist", "Conflict with existing Pokemon")
		return
	}
	writeCached(w, r, toPokemonDTO(p))
}

func (h *Handlers) createPokemon(w http.ResponseWriter, r *http.Request) {
	var req pokemonRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Pokemon.CreatePokemon(r.Context(), req.Name, req.Type)
	if err != nil {
		fail(w, r, err, "Pokemon does not exist", "Pokemon already exists")
		return
	}
	writeJSON(w, http.StatusCreated, successResponse{
		Status:  http.StatusCreated,
		Message: "Pokemon successfully created",
		Data:    toPokemonDTO(p),
	})
}

func (h *Handlers) updatePokemon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "pokemonId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req pokemonRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Pokemon.UpdatePokemon(r.Context(), id, req.Name, req.Type)
	if err != nil {
		fail(w, r, err, "Pokemon not found", "Conflict with existing Pokemon")
		return
	}
	writeJSON(w, http.StatusOK, toPokemonDTO(p))
}

func (h *Handlers) deletePokemon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "pokemonId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	if err := h.Pokemon.DeletePokemonByID(r.Context(), id); err != nil {
		fail(w, r, err, "Pokemon does not exist", "Conflict with existing Pokemon")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Status: http.StatusOK, Message: "Pokemon deleted"})
}

// ---- reviews ----

func reviewIDs(w http.ResponseWriter, r *http.Request) (pokemonID, reviewID int64, ok bool) {
	pokemonID, err := pathID(r, "pokemonId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return 0, 0, false
	}
	reviewID, err = pathID(r, "reviewId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return 0, 0, false
	}
	return pokemonID, reviewID, true
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	pokemonID, err := pathID(r, "pokemonId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	rs, err := h.Reviews.ListReviewsByPokemonID(r.Context(), pokemonID)
	if err != nil {
		fail(w, r, err, "Pokemon does not exist", "Review already exists")
		return
	}
	writeCached(w, r, toReviewDTOs(rs))
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	pokemonID, reviewID, ok := reviewIDs(w, r)
	if !ok {
		return
	}
	rv, err := h.Reviews.GetReview(r.Context(), pokemonID, reviewID)
	if err != nil {
		fail(w, r, err, "Review does not exist", "Review already exists")
		return
	}
	writeCached(w, r, toReviewDTO(rv))
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	pokemonID, err := pathID(r, "pokemonId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req reviewRequest
	if !decode(w, r, &req) {
		return
	}
	rv, err := h.Reviews.CreateReview(r.Context(), pokemonID, req.Title, req.Content, req.Stars)
	if err != nil {
		fail(w, r, err, "Pokemon does not exist", "Review already exists")
		return
	}
	writeJSON(w, http.StatusCreated, successResponse{
		Status:  http.StatusCreated,
		Message: "Review successfully created",
		Data:    toReviewDTO(rv),
	})
}

func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	pokemonID, reviewID, ok := reviewIDs(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if !decode(w, r, &req) {
		return
	}
	rv, err := h.Reviews.UpdateReview(r.Context(), pokemonID, reviewID, req.Title, req.Content, req.Stars)
	if err != nil {
		fail(w, r, err, "Review does not exist", "Review already exists")
		return
	}
	writeJSON(w, http.StatusOK, toReviewDTO(rv))
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	pokemonID, reviewID, ok := reviewIDs(w, r)
	if !ok {
		return
	}
	if err := h.Reviews.DeleteReview(r.Context(), pokemonID, reviewID); err != nil {
		fail(w, r, err, "Review does not exist", "Review already exists")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Status: http.StatusOK, Message: "Review deleted"})
}
