package domain

type Review struct {
	ID        int64  `db:"id"`
	PokemonID int64  `db:"pokemon_id"`
	Title     string `db:"title"`
	Content   string `db:"content"`
	Stars     int    `db:"stars"`
}

const (
	MinStars = 1
	MaxStars = 5
)

// BelongsTo reports whether the review is owned by the given Pokemon.
func (r Review) BelongsTo(pokemonID int64) bool { return r.PokemonID == pokemonID }
