package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/filmorate/internal/domain"
	"github.com/Clark-Hu/filmorate/internal/metrics"
)

// FilmCatalog lists every film with its genres loaded.
type FilmCatalog interface {
	ListFilms(ctx context.Context) ([]domain.Film, error)
}

// FilmSource lists films and resolves single ids.
type FilmSource interface {
	FilmCatalog
	FilmLookup
}

// Engine serves ranking and recommendation requests against live collaborators.
type Engine struct {
	films       FilmSource
	counts      LikeCounter
	likes       LikeReader
	recommender *Recommender
	logger      zerolog.Logger
}

// Deps groups the collaborators an Engine reads from.
type Deps struct {
	Films  FilmSource
	Users  UserLister
	Likes  LikeReader
	Counts LikeCounter
}

// NewEngine constructs an Engine.
func NewEngine(deps Deps, logger zerolog.Logger) *Engine {
	return &Engine{
		films:       deps.Films,
		counts:      deps.Counts,
		likes:       deps.Likes,
		recommender: NewRecommender(deps.Users, deps.Likes, deps.Films, logger),
		logger:      logger,
	}
}

// Popular ranks the whole catalog by like count using the given filters and limit.
func (e *Engine) Popular(ctx context.Context, opts RankOptions) ([]domain.Film, error) {
	if opts.Limit <= 0 {
		metrics.RankingRequests.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidArgument, opts.Limit)
	}
	start := time.Now()

	films, err := e.films.ListFilms(ctx)
	if err != nil {
		metrics.RankingRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("list films: %w", err)
	}
	counts, err := e.counts.LikeCounts(ctx)
	if err != nil {
		metrics.RankingRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("like counts: %w", err)
	}

	ranked, err := Rank(films, counts, opts)
	if err != nil {
		metrics.RankingRequests.WithLabelValues("rejected").Inc()
		return nil, err
	}

	metrics.RankingDuration.Observe(time.Since(start).Seconds())
	metrics.RankingRequests.WithLabelValues("ok").Inc()
	e.logger.Debug().Int("limit", opts.Limit).Int("count", len(ranked)).Msg("popular films ranked")
	return ranked, nil
}

// Recommend returns neighbor-based suggestions for a user already known to exist.
func (e *Engine) Recommend(ctx context.Context, userID int64) ([]domain.Film, error) {
	start := time.Now()
	films, err := e.recommender.Recommend(ctx, userID)
	if err != nil {
		metrics.RecommendationRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	if len(films) == 0 {
		metrics.RecommendationRequests.WithLabelValues("empty").Inc()
	} else {
		metrics.RecommendationRequests.WithLabelValues("ok").Inc()
	}
	metrics.RecommendedFilms.Observe(float64(len(films)))
	return films, nil
}

// CommonFilms returns films both users liked, most liked first.
func (e *Engine) CommonFilms(ctx context.Context, userID, friendID int64) ([]domain.Film, error) {
	mine, err := e.likes.LikesOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("likes of user %d: %w", userID, err)
	}
	theirs, err := e.likes.LikesOf(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("likes of user %d: %w", friendID, err)
	}

	shared := make([]domain.Film, 0)
	for filmID := range mine {
		if _, ok := theirs[filmID]; !ok {
			continue
		}
		film, ok, err := e.films.FindFilm(ctx, filmID)
		if err != nil {
			return nil, fmt.Errorf("resolve film %d: %w", filmID, err)
		}
		if ok {
			shared = append(shared, film)
		}
	}
	if len(shared) == 0 {
		return shared, nil
	}

	counts, err := e.counts.LikeCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("like counts: %w", err)
	}
	return Rank(shared, counts, RankOptions{Limit: len(shared)})
}
