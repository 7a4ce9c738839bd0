// Package recommend holds the film ranking and recommendation logic.
//
// Everything here is storage-agnostic: collaborators are injected as small
// interfaces and re-queried on every call, so results always reflect the
// current like relation. Functions never mutate shared state and are safe to
// call concurrently.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Clark-Hu/filmorate/internal/domain"
)

// ErrInvalidArgument is returned for caller-supplied values the core rejects.
var ErrInvalidArgument = errors.New("recommend: invalid argument")

// DefaultPopularCount is the ranking limit used when the caller gives none.
const DefaultPopularCount = 10

// RankOptions narrows and caps a popularity ranking.
type RankOptions struct {
	Limit   int
	GenreID *int64
	Year    *int
}

// Matches reports whether a film passes the genre and year filters.
func (o RankOptions) Matches(f domain.Film) bool {
	if o.GenreID != nil && !f.HasGenre(*o.GenreID) {
		return false
	}
	if o.Year != nil && f.ReleaseYear() != *o.Year {
		return false
	}
	return true
}

// Rank orders films by distinct-liker count descending, ties broken by
// ascending film id. Films absent from likeCounts rank with zero likes.
func Rank(films []domain.Film, likeCounts map[int64]int, opts RankOptions) ([]domain.Film, error) {
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidArgument, opts.Limit)
	}

	ranked := make([]domain.Film, 0, len(films))
	for _, f := range films {
		if opts.Matches(f) {
			ranked = append(ranked, f)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := likeCounts[ranked[i].ID], likeCounts[ranked[j].ID]
		if ci != cj {
			return ci > cj
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}
	return ranked, nil
}
