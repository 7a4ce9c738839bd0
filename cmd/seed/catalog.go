package main

import (
	"context"
	"sort"

	"github.com/Clark-Hu/filmorate/internal/domain"
)

// memoryCatalog serves films and user ids for dry runs.
type memoryCatalog struct {
	films map[int64]domain.Film
	users []int64
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{films: make(map[int64]domain.Film)}
}

func (c *memoryCatalog) add(film domain.Film) {
	c.films[film.ID] = film
}

func (c *memoryCatalog) ListFilms(_ context.Context) ([]domain.Film, error) {
	out := make([]domain.Film, 0, len(c.films))
	for _, f := range c.films {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *memoryCatalog) FindFilm(_ context.Context, id int64) (domain.Film, bool, error) {
	f, ok := c.films[id]
	return f, ok, nil
}

func (c *memoryCatalog) ListUserIDs(_ context.Context) ([]int64, error) {
	out := append([]int64(nil), c.users...)
	return out, nil
}
