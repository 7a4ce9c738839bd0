package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/filmorate/internal/domain"
)

// NeighborCount is how many similar users feed a recommendation.
const NeighborCount = 1

// UserLister enumerates every known user id.
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]int64, error)
}

// FilmLookup resolves a film id. ok is false when the film no longer exists.
type FilmLookup interface {
	FindFilm(ctx context.Context, filmID int64) (film domain.Film, ok bool, err error)
}

// Recommender suggests films liked by the user whose likes overlap most with the target's.
//
// Each call reads the like set of every user, so the cost is O(U × F) for U users
// with F likes on average.
type Recommender struct {
	users  UserLister
	likes  LikeReader
	films  FilmLookup
	logger zerolog.Logger
}

// NewRecommender wires the collaborators the algorithm reads from.
func NewRecommender(users UserLister, likes LikeReader, films FilmLookup, logger zerolog.Logger) *Recommender {
	return &Recommender{users: users, likes: likes, films: films, logger: logger}
}

// Recommend returns films the closest neighbor liked that the target has not,
// ordered by film id. The target id is assumed valid; an empty result means
// there was no signal. Ties on overlap go to the lowest user id.
func (r *Recommender) Recommend(ctx context.Context, targetUserID int64) ([]domain.Film, error) {
	targetLikes, err := r.likes.LikesOf(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("likes of user %d: %w", targetUserID, err)
	}
	if len(targetLikes) == 0 {
		return []domain.Film{}, nil
	}

	neighbors, err := r.nearestNeighbors(ctx, targetUserID, targetLikes)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		r.logger.Debug().Int64("user_id", targetUserID).Msg("no overlapping neighbor")
		return []domain.Film{}, nil
	}

	pending := make(map[int64]struct{})
	for _, n := range neighbors {
		for filmID := range n.likes {
			if _, seen := targetLikes[filmID]; !seen {
				pending[filmID] = struct{}{}
			}
		}
	}
	candidates := make([]int64, 0, len(pending))
	for filmID := range pending {
		candidates = append(candidates, filmID)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	films := make([]domain.Film, 0, len(candidates))
	for _, filmID := range candidates {
		film, ok, err := r.films.FindFilm(ctx, filmID)
		if err != nil {
			return nil, fmt.Errorf("resolve film %d: %w", filmID, err)
		}
		if !ok {
			r.logger.Debug().Int64("film_id", filmID).Msg("skipping dangling like")
			continue
		}
		films = append(films, film)
	}

	r.logger.Debug().
		Int64("user_id", targetUserID).
		Int64("neighbor_id", neighbors[0].id).
		Int("overlap", neighbors[0].overlap).
		Int("count", len(films)).
		Msg("recommendations computed")
	return films, nil
}

type neighbor struct {
	id      int64
	overlap int
	likes   map[int64]struct{}
}

// nearestNeighbors returns up to NeighborCount users with a non-zero overlap,
// highest overlap first and lowest id first among equals.
func (r *Recommender) nearestNeighbors(ctx context.Context, targetUserID int64, targetLikes map[int64]struct{}) ([]neighbor, error) {
	ids, err := r.users.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	ids = append([]int64(nil), ids...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	best := make([]neighbor, 0, NeighborCount+1)
	for _, id := range ids {
		if id == targetUserID {
			continue
		}
		likes, err := r.likes.LikesOf(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("likes of user %d: %w", id, err)
		}
		if len(likes) == 0 {
			continue
		}
		n := overlap(likes, targetLikes)
		if n == 0 {
			continue
		}
		// ids arrive ascending, so inserting after equal overlaps keeps the lowest id ahead.
		pos := sort.Search(len(best), func(i int) bool { return best[i].overlap < n })
		if pos >= NeighborCount {
			continue
		}
		best = append(best, neighbor{})
		copy(best[pos+1:], best[pos:])
		best[pos] = neighbor{id: id, overlap: n, likes: likes}
		if len(best) > NeighborCount {
			best = best[:NeighborCount]
		}
	}
	return best, nil
}

func overlap(a, b map[int64]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if _, ok := b[id]; ok {
			n++
		}
	}
	return n
}
