package mysql

// -----------------------------------------------------------------------------
// POKEMON
// -----------------------------------------------------------------------------

const insertPokemonSQL = `
INSERT INTO pokemon (name, type)
VALUES (?, ?)
`

const updatePokemonSQL = `
UPDATE pokemon
SET name = ?, type = ?
WHERE id = ?
`

const deletePokemonSQL = `DELETE FROM pokemon WHERE id = ?`

// Reviews go first so the delete does not depend on the FK cascade.
const deletePokemonReviewsSQL = `DELETE FROM reviews WHERE pokemon_id = ?`

const getPokemonSQL = `
SELECT id, name, type
FROM pokemon
WHERE id = ?
`

const getPokemonByNameSQL = `
SELECT id, name, type
FROM pokemon
WHERE name = ?
`

const existsPokemonSQL = `SELECT EXISTS(SELECT 1 FROM pokemon WHERE id = ?)`

const existsPokemonByNameSQL = `SELECT EXISTS(SELECT 1 FROM pokemon WHERE name = ?)`

// The optional type filter is applied when the first argument is non-empty.
const listPokemonSQL = `
SELECT id, name, type
FROM pokemon
WHERE (? = '' OR type = ?)
ORDER BY id
LIMIT ? OFFSET ?
`

const countPokemonSQL = `
SELECT COUNT(*)
FROM pokemon
WHERE (? = '' OR type = ?)
`

// -----------------------------------------------------------------------------
// REVIEWS
// -----------------------------------------------------------------------------

const insertReviewSQL = `
INSERT INTO reviews (pokemon_id, title, content, stars)
VALUES (?, ?, ?, ?)
`

// pokemon_id is never rewritten; a review keeps its owner.
const updateReviewSQL = `
UPDATE reviews
SET title = ?, content = ?, stars = ?
WHERE id = ?
`

const deleteReviewSQL = `DELETE FROM reviews WHERE id = ?`

const getReviewSQL = `
SELECT id, pokemon_id, title, content, stars
FROM reviews
WHERE id = ?
`

const listReviewsByPokemonSQL = `
SELECT id, pokemon_id, title, content, stars
FROM reviews
WHERE pokemon_id = ?
ORDER BY id
`
