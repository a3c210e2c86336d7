package domain

import "math"

type Pokemon struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Type string `db:"type"`
}

// PokemonPage is one zero-based page of Pokemon plus the totals needed to
// render pagination.
type PokemonPage struct {
	Items         []Pokemon
	PageNo        int
	PageSize      int
	TotalElements int64
	TotalPages    int
	Last          bool
}

type PageQuery struct {
	PageNo   int
	PageSize int
	Type     string // optional exact-match filter
}

// Offset is only meaningful for queries that passed OffsetFits.
func (q PageQuery) Offset() int { return q.PageNo * q.PageSize }

// OffsetFits reports whether PageNo*PageSize is representable as an int.
func (q PageQuery) OffsetFits() bool {
	return q.PageSize <= 0 || q.PageNo <= math.MaxInt/q.PageSize
}

// NewPokemonPage derives the totals from the item count of the whole result set.
// The arithmetic avoids additions so very large page sizes cannot wrap.
func NewPokemonPage(items []Pokemon, q PageQuery, total int64) PokemonPage {
	pages := int64(0)
	if q.PageSize > 0 {
		ps := int64(q.PageSize)
		pages = total / ps
		if total%ps != 0 {
			pages++
		}
	}
	if items == nil {
		items = []Pokemon{}
	}
	return PokemonPage{
		Items:         items,
		PageNo:        q.PageNo,
		PageSize:      q.PageSize,
		TotalElements: total,
		TotalPages:    int(pages),
		Last:          int64(q.PageNo) >= pages-1,
	}
}
