package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"pokemon_review/internal/domain"
)

// MySQL server error for a unique-key violation.
const errDupEntry = 1062

// mapErr converts driver errors into domain error kinds.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var me *gomysql.MySQLError
	if errors.As(err, &me) && me.Number == errDupEntry {
		return fmt.Errorf("%s: %w", me.Message, domain.ErrAlreadyExists)
	}
	return err
}

// affected turns a zero-row delete into ErrNotFound.
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type Repo struct{ db *sqlx.DB }

func New(db *sqlx.DB) *Repo { return &Repo{db: db} }

// Open connects with the mysql driver and pings once.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ---- pokemon ----

func (r *Repo) CreatePokemon(ctx context.Context, p domain.Pokemon) (domain.Pokemon, error) {
	res, err := r.db.ExecContext(ctx, insertPokemonSQL, p.Name, p.Type)
	if err != nil {
		return domain.Pokemon{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Pokemon{}, fmt.Errorf("last insert id: %w", err)
	}
	p.ID = id
	return p, nil
}

// UpdatePokemon does not report missing rows: MySQL counts unchanged rows as
// unaffected, so existence is checked by the caller.
func (r *Repo) UpdatePokemon(ctx context.Context, p domain.Pokemon) error {
	_, err := r.db.ExecContext(ctx, updatePokemonSQL, p.Name, p.Type, p.ID)
	return mapErr(err)
}

func (r *Repo) DeletePokemon(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deletePokemonReviewsSQL, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, deletePokemonSQL, id)
		if err != nil {
			return err
		}
		return affected(res)
	})
}

func (r *Repo) GetPokemon(ctx context.Context, id int64) (domain.Pokemon, error) {
	var p domain.Pokemon
	if err := r.db.GetContext(ctx, &p, getPokemonSQL, id); err != nil {
		return domain.Pokemon{}, mapErr(err)
	}
	return p, nil
}

func (r *Repo) FindPokemonByName(ctx context.Context, name string) (domain.Pokemon, error) {
	var p domain.Pokemon
	if err := r.db.GetContext(ctx, &p, getPokemonByNameSQL, name); err != nil {
		return domain.Pokemon{}, mapErr(err)
	}
	return p, nil
}

func (r *Repo) ExistsPokemon(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, existsPokemonSQL, id)
	return ok, err
}

func (r *Repo) ExistsPokemonByName(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, existsPokemonByNameSQL, name)
	return ok, err
}

func (r *Repo) ListPokemon(ctx context.Context, q domain.PageQuery) ([]domain.Pokemon, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, countPokemonSQL, q.Type, q.Type); err != nil {
		return nil, 0, err
	}
	offset := int64(q.Offset())
	if total == 0 || offset >= total {
		return []domain.Pokemon{}, total, nil
	}
	out := make([]domain.Pokemon, 0, min(int64(q.PageSize), total-offset))
	if err := r.db.SelectContext(ctx, &out, listPokemonSQL, q.Type, q.Type, q.PageSize, offset); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ---- reviews ----

func (r *Repo) CreateReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	res, err := r.db.ExecContext(ctx, insertReviewSQL, rv.PokemonID, rv.Title, rv.Content, rv.Stars)
	if err != nil {
		return domain.Review{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Review{}, fmt.Errorf("last insert id: %w", err)
	}
	rv.ID = id
	return rv, nil
}

func (r *Repo) UpdateReview(ctx context.Context, rv domain.Review) error {
	_, err := r.db.ExecContext(ctx, updateReviewSQL, rv.Title, rv.Content, rv.Stars, rv.ID)
	return mapErr(err)
}

func (r *Repo) DeleteReview(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteReviewSQL, id)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *Repo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	var rv domain.Review
	if err := r.db.GetContext(ctx, &rv, getReviewSQL, id); err != nil {
		return domain.Review{}, mapErr(err)
	}
	return rv, nil
}

func (r *Repo) ListReviewsByPokemon(ctx context.Context, pokemonID int64) ([]domain.Review, error) {
	out := []domain.Review{}
	if err := r.db.SelectContext(ctx, &out, listReviewsByPokemonSQL, pokemonID); err != nil {
		return nil, err
	}
	return out, nil
}

// withTx runs fn in a transaction, rolling back on error.
func (r *Repo) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return mapErr(err)
	}
	return tx.Commit()
}
