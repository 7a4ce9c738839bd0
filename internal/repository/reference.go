package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/filmorate/internal/domain"
)

// GenresRepository reads the seeded genre dictionary.
type GenresRepository struct {
	pool *pgxpool.Pool
}

// List returns all genres ordered by id.
func (r *GenresRepository) List(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Genre])
}

// GetByID fetches a genre.
func (r *GenresRepository) GetByID(ctx context.Context, id int64) (domain.Genre, error) {
	var g domain.Genre
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM genres WHERE id = $1`, id).Scan(&g.ID, &g.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Genre{}, ErrNotFound
	}
	return g, err
}

// MpaRepository reads the seeded age-rating dictionary.
type MpaRepository struct {
	pool *pgxpool.Pool
}

// List returns all ratings ordered by id.
func (r *MpaRepository) List(ctx context.Context) ([]domain.Mpa, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM mpa ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Mpa])
}

// GetByID fetches a rating.
func (r *MpaRepository) GetByID(ctx context.Context, id int64) (domain.Mpa, error) {
	var m domain.Mpa
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM mpa WHERE id = $1`, id).Scan(&m.ID, &m.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Mpa{}, ErrNotFound
	}
	return m, err
}

// DirectorsRepository stores directors.
type DirectorsRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a director.
func (r *DirectorsRepository) Create(ctx context.Context, name string) (domain.Director, error) {
	d := domain.Director{Name: name}
	err := r.pool.QueryRow(ctx, `INSERT INTO directors (name) VALUES ($1) RETURNING id`, name).Scan(&d.ID)
	return d, err
}

// List returns all directors ordered by id.
func (r *DirectorsRepository) List(ctx context.Context) ([]domain.Director, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM directors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Director])
}

// GetByID fetches a director.
func (r *DirectorsRepository) GetByID(ctx context.Context, id int64) (domain.Director, error) {
	var d domain.Director
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM directors WHERE id = $1`, id).Scan(&d.ID, &d.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Director{}, ErrNotFound
	}
	return d, err
}

// Update renames a director.
func (r *DirectorsRepository) Update(ctx context.Context, id int64, name string) (domain.Director, error) {
	d := domain.Director{ID: id}
	err := r.pool.QueryRow(ctx, `UPDATE directors SET name = $2 WHERE id = $1 RETURNING name`, id, name).Scan(&d.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Director{}, ErrNotFound
	}
	return d, err
}

// Delete removes a director; film links cascade, the films stay.
func (r *DirectorsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM directors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
