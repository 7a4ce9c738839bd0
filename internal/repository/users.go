package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/filmorate/internal/domain"
)

// UsersRepository provides persistence helpers for users.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, email, login, name, birthday`

// UserParams bundles the writable fields of a user.
type UserParams struct {
	Email    string
	Login    string
	Name     string
	Birthday *time.Time
}

func (p UserParams) displayName() string {
	if strings.TrimSpace(p.Name) == "" {
		return p.Login
	}
	return p.Name
}

// Create inserts a user. A blank name is stored as the login.
func (r *UsersRepository) Create(ctx context.Context, params UserParams) (domain.User, error) {
	const query = `
        INSERT INTO users (email, login, name, birthday)
        VALUES ($1,$2,$3,$4)
        RETURNING ` + userColumns
	user, err := scanUser(r.pool.QueryRow(ctx, query, params.Email, params.Login, params.displayName(), params.Birthday))
	if err != nil {
		return domain.User{}, translate(err)
	}
	return user, nil
}

// Update replaces the fields of an existing user.
func (r *UsersRepository) Update(ctx context.Context, id int64, params UserParams) (domain.User, error) {
	const query = `
        UPDATE users
        SET email = $2, login = $3, name = $4, birthday = $5
        WHERE id = $1
        RETURNING ` + userColumns
	user, err := scanUser(r.pool.QueryRow(ctx, query, id, params.Email, params.Login, params.displayName(), params.Birthday))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, translate(err)
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// Delete removes a user together with their likes, friendships and reviews.
func (r *UsersRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether a user row is present.
func (r *UsersRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

// List returns all users ordered by id.
func (r *UsersRepository) List(ctx context.Context) ([]domain.User, error) {
	return queryUsers(ctx, r.pool, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

// ListUserIDs returns every user id in ascending order.
func (r *UsersRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func queryUsers(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]domain.User, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &user.Birthday)
	return user, err
}
