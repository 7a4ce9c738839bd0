package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LikesRepository stores the (user, film) like relation. The composite primary
// key keeps each pair unique, so concurrent adds of the same pair are safe.
type LikesRepository struct {
	pool *pgxpool.Pool
}

// AddLike records the pair; adding an existing pair is a no-op.
func (r *LikesRepository) AddLike(ctx context.Context, userID, filmID int64) error {
	const query = `
        INSERT INTO film_likes (user_id, film_id)
        VALUES ($1,$2)
        ON CONFLICT (user_id, film_id) DO NOTHING
    `
	if _, err := r.pool.Exec(ctx, query, userID, filmID); err != nil {
		return translate(err)
	}
	return nil
}

// RemoveLike deletes the pair; removing an absent pair is not an error.
func (r *LikesRepository) RemoveLike(ctx context.Context, userID, filmID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM film_likes WHERE user_id = $1 AND film_id = $2`, userID, filmID)
	return err
}

// LikesOf returns the ids of films the user liked.
func (r *LikesRepository) LikesOf(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	return r.idSet(ctx, `SELECT film_id FROM film_likes WHERE user_id = $1`, userID)
}

// LikersOf returns the ids of users who liked the film.
func (r *LikesRepository) LikersOf(ctx context.Context, filmID int64) (map[int64]struct{}, error) {
	return r.idSet(ctx, `SELECT user_id FROM film_likes WHERE film_id = $1`, filmID)
}

// LikeCounts returns the distinct-liker count for every film with at least one like.
func (r *LikesRepository) LikeCounts(ctx context.Context) (map[int64]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT film_id, COUNT(*) FROM film_likes GROUP BY film_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var filmID, count int64
		if err := rows.Scan(&filmID, &count); err != nil {
			return nil, err
		}
		counts[filmID] = int(count)
	}
	return counts, rows.Err()
}

func (r *LikesRepository) idSet(ctx context.Context, query string, arg int64) (map[int64]struct{}, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
