package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/Clark-Hu/filmorate/internal/domain"
)

// catalog is an in-memory FilmSource and UserLister for tests.
type catalog struct {
	films   map[int64]domain.Film
	users   []int64
	listErr error
}

func newCatalog(films ...domain.Film) *catalog {
	c := &catalog{films: make(map[int64]domain.Film)}
	for _, f := range films {
		c.films[f.ID] = f
	}
	return c
}

func (c *catalog) ListFilms(_ context.Context) ([]domain.Film, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	out := make([]domain.Film, 0, len(c.films))
	for _, f := range c.films {
		out = append(out, f)
	}
	return out, nil
}

func (c *catalog) FindFilm(_ context.Context, id int64) (domain.Film, bool, error) {
	f, ok := c.films[id]
	return f, ok, nil
}

func (c *catalog) ListUserIDs(_ context.Context) ([]int64, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.users, nil
}

var errStoreDown = errors.New("store unreachable")

func film(id int64, year int, genres ...int64) domain.Film {
	f := domain.Film{
		ID:          id,
		Name:        "film",
		ReleaseDate: time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC),
		Duration:    100,
		Mpa:         domain.Mpa{ID: 1},
	}
	for _, g := range genres {
		f.Genres = append(f.Genres, domain.Genre{ID: g})
	}
	return f
}

func ids(films []domain.Film) []int64 {
	out := make([]int64, len(films))
	for i, f := range films {
		out[i] = f.ID
	}
	return out
}

func mustLike(likes *MemoryLikes, pairs ...[2]int64) {
	for _, p := range pairs {
		_ = likes.AddLike(context.Background(), p[0], p[1])
	}
}
