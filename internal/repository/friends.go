package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/filmorate/internal/domain"
)

// FriendsRepository stores one-directional friendships: user_id lists friend_id as a friend.
type FriendsRepository struct {
	pool *pgxpool.Pool
}

// Add records friendID as a friend of userID. Repeating the call is a no-op.
func (r *FriendsRepository) Add(ctx context.Context, userID, friendID int64) error {
	const query = `
        INSERT INTO friendships (user_id, friend_id)
        VALUES ($1,$2)
        ON CONFLICT (user_id, friend_id) DO NOTHING
    `
	if _, err := r.pool.Exec(ctx, query, userID, friendID); err != nil {
		return translate(err)
	}
	return nil
}

// Remove drops the friendship if present.
func (r *FriendsRepository) Remove(ctx context.Context, userID, friendID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2`, userID, friendID)
	return err
}

// List returns the friends of a user ordered by id.
func (r *FriendsRepository) List(ctx context.Context, userID int64) ([]domain.User, error) {
	return queryUsers(ctx, r.pool, `
        SELECT u.id, u.email, u.login, u.name, u.birthday
        FROM friendships AS fr
        JOIN users AS u ON u.id = fr.friend_id
        WHERE fr.user_id = $1
        ORDER BY u.id
    `, userID)
}

// Common returns users both userID and otherID list as friends.
func (r *FriendsRepository) Common(ctx context.Context, userID, otherID int64) ([]domain.User, error) {
	return queryUsers(ctx, r.pool, `
        SELECT u.id, u.email, u.login, u.name, u.birthday
        FROM friendships AS a
        JOIN friendships AS b ON b.friend_id = a.friend_id
        JOIN users AS u ON u.id = a.friend_id
        WHERE a.user_id = $1 AND b.user_id = $2
        ORDER BY u.id
    `, userID, otherID)
}
