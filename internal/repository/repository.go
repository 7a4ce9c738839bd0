package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/filmorate/internal/store"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrInvalidReference indicates a write pointed at a missing mpa, genre, director, user or film.
	ErrInvalidReference = errors.New("repository: invalid reference")
	// ErrConflict indicates a unique column already holds the value.
	ErrConflict = errors.New("repository: conflict")
)

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Films     *FilmsRepository
	Users     *UsersRepository
	Likes     *LikesRepository
	Friends   *FriendsRepository
	Genres    *GenresRepository
	Mpa       *MpaRepository
	Directors *DirectorsRepository
	Reviews   *ReviewsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Films:     &FilmsRepository{pool: pool},
		Users:     &UsersRepository{pool: pool},
		Likes:     &LikesRepository{pool: pool},
		Friends:   &FriendsRepository{pool: pool},
		Genres:    &GenresRepository{pool: pool},
		Mpa:       &MpaRepository{pool: pool},
		Directors: &DirectorsRepository{pool: pool},
		Reviews:   &ReviewsRepository{pool: pool},
	}
}

// translate maps constraint violations onto repository sentinels.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return ErrInvalidReference
		case "23505":
			return ErrConflict
		}
	}
	return err
}
