package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/filmorate/internal/domain"
)

// ReviewsRepository stores film reviews.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

const reviewColumns = `id, content, is_positive, user_id, film_id, useful`

// ReviewParams bundles the writable fields of a review.
type ReviewParams struct {
	Content    string
	IsPositive bool
	UserID     int64
	FilmID     int64
}

// Create inserts a review. A second review of the same film by the same user is ErrConflict.
func (r *ReviewsRepository) Create(ctx context.Context, params ReviewParams) (domain.Review, error) {
	const query = `
        INSERT INTO reviews (content, is_positive, user_id, film_id)
        VALUES ($1,$2,$3,$4)
        RETURNING ` + reviewColumns
	review, err := scanReview(r.pool.QueryRow(ctx, query, params.Content, params.IsPositive, params.UserID, params.FilmID))
	if err != nil {
		return domain.Review{}, translate(err)
	}
	return review, nil
}

// Update rewrites the content and polarity of a review. Author and film never change.
func (r *ReviewsRepository) Update(ctx context.Context, id int64, content string, isPositive bool) (domain.Review, error) {
	const query = `
        UPDATE reviews
        SET content = $2, is_positive = $3
        WHERE id = $1
        RETURNING ` + reviewColumns
	review, err := scanReview(r.pool.QueryRow(ctx, query, id, content, isPositive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// GetByID fetches a review.
func (r *ReviewsRepository) GetByID(ctx context.Context, id int64) (domain.Review, error) {
	review, err := scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// Delete removes a review.
func (r *ReviewsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns up to limit reviews ordered by useful desc, then id asc.
// A nil filmID lists reviews of every film.
func (r *ReviewsRepository) List(ctx context.Context, filmID *int64, limit int) ([]domain.Review, error) {
	const query = `
        SELECT ` + reviewColumns + `
        FROM reviews
        WHERE $1::bigint IS NULL OR film_id = $1
        ORDER BY useful DESC, id
        LIMIT $2
    `
	rows, err := r.pool.Query(ctx, query, filmID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var review domain.Review
	err := row.Scan(&review.ID, &review.Content, &review.IsPositive, &review.UserID, &review.FilmID, &review.Useful)
	return review, err
}
