package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/filmorate/internal/domain"
)

// FilmsRepository provides persistence helpers for film entities.
type FilmsRepository struct {
	pool *pgxpool.Pool
}

const filmSelect = `
    SELECT f.id, f.name, f.description, f.release_date, f.duration, m.id, m.name
    FROM films AS f
    JOIN mpa AS m ON m.id = f.mpa_id
`

// FilmParams bundles the writable fields of a film.
type FilmParams struct {
	Name        string
	Description string
	ReleaseDate time.Time
	Duration    int
	MpaID       int64
	GenreIDs    []int64
	DirectorIDs []int64
}

// Create inserts a new film with its genres and directors and returns the stored entity.
func (r *FilmsRepository) Create(ctx context.Context, params FilmParams) (domain.Film, error) {
	var id int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO films (name, description, release_date, duration, mpa_id)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id
        `
		if err := tx.QueryRow(ctx, query, params.Name, params.Description, params.ReleaseDate, params.Duration, params.MpaID).Scan(&id); err != nil {
			return translate(err)
		}
		return writeRelations(ctx, tx, id, params)
	})
	if err != nil {
		return domain.Film{}, err
	}
	return r.GetByID(ctx, id)
}

// Update replaces every field of an existing film, including its genre and director sets.
func (r *FilmsRepository) Update(ctx context.Context, id int64, params FilmParams) (domain.Film, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            UPDATE films
            SET name = $2, description = $3, release_date = $4, duration = $5, mpa_id = $6
            WHERE id = $1
        `
		tag, err := tx.Exec(ctx, query, id, params.Name, params.Description, params.ReleaseDate, params.Duration, params.MpaID)
		if err != nil {
			return translate(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM film_genres WHERE film_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM film_directors WHERE film_id = $1`, id); err != nil {
			return err
		}
		return writeRelations(ctx, tx, id, params)
	})
	if err != nil {
		return domain.Film{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a film; likes, genres and directors links cascade.
func (r *FilmsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM films WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func writeRelations(ctx context.Context, tx pgx.Tx, filmID int64, params FilmParams) error {
	if len(params.GenreIDs) > 0 {
		const query = `
            INSERT INTO film_genres (film_id, genre_id)
            SELECT $1, unnest($2::bigint[])
            ON CONFLICT DO NOTHING
        `
		if _, err := tx.Exec(ctx, query, filmID, params.GenreIDs); err != nil {
			return translate(err)
		}
	}
	if len(params.DirectorIDs) > 0 {
		const query = `
            INSERT INTO film_directors (film_id, director_id)
            SELECT $1, unnest($2::bigint[])
            ON CONFLICT DO NOTHING
        `
		if _, err := tx.Exec(ctx, query, filmID, params.DirectorIDs); err != nil {
			return translate(err)
		}
	}
	return nil
}

// GetByID fetches a film by its identifier.
func (r *FilmsRepository) GetByID(ctx context.Context, id int64) (domain.Film, error) {
	film, err := scanFilm(r.pool.QueryRow(ctx, filmSelect+` WHERE f.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Film{}, ErrNotFound
		}
		return domain.Film{}, err
	}
	films := []domain.Film{film}
	if err := r.attachRelations(ctx, films); err != nil {
		return domain.Film{}, err
	}
	return films[0], nil
}

// FindFilm resolves a film id, reporting ok=false instead of an error when it no longer exists.
func (r *FilmsRepository) FindFilm(ctx context.Context, id int64) (domain.Film, bool, error) {
	film, err := r.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return domain.Film{}, false, nil
	}
	if err != nil {
		return domain.Film{}, false, err
	}
	return film, true, nil
}

// Exists reports whether a film row is present.
func (r *FilmsRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM films WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

// ListFilms returns every film ordered by id with genres and directors attached.
func (r *FilmsRepository) ListFilms(ctx context.Context) ([]domain.Film, error) {
	rows, err := r.pool.Query(ctx, filmSelect+` ORDER BY f.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	films := make([]domain.Film, 0)
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, film)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, films); err != nil {
		return nil, err
	}
	return films, nil
}

func (r *FilmsRepository) attachRelations(ctx context.Context, films []domain.Film) error {
	if len(films) == 0 {
		return nil
	}
	index := make(map[int64]int, len(films))
	filmIDs := make([]int64, len(films))
	for i, f := range films {
		index[f.ID] = i
		filmIDs[i] = f.ID
		films[i].Genres = []domain.Genre{}
		films[i].Directors = []domain.Director{}
	}

	genreRows, err := r.pool.Query(ctx, `
        SELECT fg.film_id, g.id, g.name
        FROM film_genres AS fg
        JOIN genres AS g ON g.id = fg.genre_id
        WHERE fg.film_id = ANY($1)
        ORDER BY fg.film_id, g.id
    `, filmIDs)
	if err != nil {
		return fmt.Errorf("load film genres: %w", err)
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var filmID int64
		var g domain.Genre
		if err := genreRows.Scan(&filmID, &g.ID, &g.Name); err != nil {
			return err
		}
		i := index[filmID]
		films[i].Genres = append(films[i].Genres, g)
	}
	if err := genreRows.Err(); err != nil {
		return err
	}

	directorRows, err := r.pool.Query(ctx, `
        SELECT fd.film_id, d.id, d.name
        FROM film_directors AS fd
        JOIN directors AS d ON d.id = fd.director_id
        WHERE fd.film_id = ANY($1)
        ORDER BY fd.film_id, d.id
    `, filmIDs)
	if err != nil {
		return fmt.Errorf("load film directors: %w", err)
	}
	defer directorRows.Close()
	for directorRows.Next() {
		var filmID int64
		var d domain.Director
		if err := directorRows.Scan(&filmID, &d.ID, &d.Name); err != nil {
			return err
		}
		i := index[filmID]
		films[i].Directors = append(films[i].Directors, d)
	}
	return directorRows.Err()
}

func scanFilm(row pgx.Row) (domain.Film, error) {
	var film domain.Film
	err := row.Scan(
		&film.ID,
		&film.Name,
		&film.Description,
		&film.ReleaseDate,
		&film.Duration,
		&film.Mpa.ID,
		&film.Mpa.Name,
	)
	if err != nil {
		return domain.Film{}, err
	}
	return film, nil
}
