package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/filmorate/internal/config"
	"github.com/Clark-Hu/filmorate/internal/domain"
	"github.com/Clark-Hu/filmorate/internal/logging"
	"github.com/Clark-Hu/filmorate/internal/recommend"
	"github.com/Clark-Hu/filmorate/internal/repository"
	"github.com/Clark-Hu/filmorate/internal/store"
	"github.com/Clark-Hu/filmorate/internal/validation"
)

type userEntry struct {
	Key      string `json:"key" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required,nospace"`
	Name     string `json:"name"`
	Birthday string `json:"birthday" validate:"pastdate"`
}

type filmEntry struct {
	Key         string   `json:"key" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"max=200"`
	ReleaseDate string   `json:"releaseDate" validate:"releasedate"`
	Duration    int      `json:"duration" validate:"gt=0"`
	MpaID       int64    `json:"mpaId" validate:"gt=0"`
	GenreIDs    []int64  `json:"genreIds"`
	Directors   []string `json:"directors"`
}

type likeEntry struct {
	User string `json:"user" validate:"required"`
	Film string `json:"film" validate:"required"`
}

type fixture struct {
	Directors []string    `json:"directors"`
	Users     []userEntry `json:"users" validate:"dive"`
	Films     []filmEntry `json:"films" validate:"dive"`
	Likes     []likeEntry `json:"likes" validate:"dive"`
}

func main() {
	var (
		data   = flag.String("data", "db/seed/sample.json", "path to fixture file")
		dbURL  = flag.String("db", "", "database URL (defaults to DB_URL)")
		dryRun = flag.Bool("dry-run", false, "rank the fixture in memory without touching the database")
		count  = flag.Int("count", recommend.DefaultPopularCount, "number of popular films to print")
	)
	flag.Parse()

	logger := logging.New(logging.Config{Level: "info", Format: "console", Output: os.Stderr})

	fx, err := loadFixture(*data)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *data).Msg("load fixture")
	}
	logger.Info().
		Int("users", len(fx.Users)).
		Int("films", len(fx.Films)).
		Int("likes", len(fx.Likes)).
		Msg("fixture loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var engine *recommend.Engine
	var userIDs map[string]int64
	if *dryRun {
		engine, userIDs, err = loadMemory(ctx, fx, logger)
	} else {
		var st *store.Store
		st, err = openStore(ctx, *dbURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect database")
		}
		defer st.Close()
		engine, userIDs, err = loadDatabase(ctx, fx, repository.New(st), logger)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}

	if err := report(ctx, engine, fx, userIDs, *count); err != nil {
		logger.Fatal().Err(err).Msg("report failed")
	}
}

func loadFixture(path string) (fixture, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(file, &fx); err != nil {
		return fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if err := validation.Struct(fx); err != nil {
		return fixture{}, fmt.Errorf("invalid fixture: %w", err)
	}
	return fx, nil
}

func openStore(ctx context.Context, dbURL string, logger zerolog.Logger) (*store.Store, error) {
	if dbURL == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		dbURL = cfg.DBURL
	}
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return store.New(connCtx, dbURL, store.Options{MaxConns: 4, StatementCacheCapacity: 64, Logger: logger})
}

// loadDatabase writes the fixture through the repositories and returns an engine over them.
func loadDatabase(ctx context.Context, fx fixture, repo *repository.Repository, logger zerolog.Logger) (*recommend.Engine, map[string]int64, error) {
	directorIDs := make(map[string]int64, len(fx.Directors))
	for _, name := range fx.Directors {
		d, err := repo.Directors.Create(ctx, name)
		if err != nil {
			return nil, nil, fmt.Errorf("create director %q: %w", name, err)
		}
		directorIDs[name] = d.ID
	}

	userIDs := make(map[string]int64, len(fx.Users))
	for _, u := range fx.Users {
		params := repository.UserParams{Email: u.Email, Login: u.Login, Name: u.Name}
		if u.Birthday != "" {
			b, _ := time.Parse(validation.DateLayout, u.Birthday)
			params.Birthday = &b
		}
		user, err := repo.Users.Create(ctx, params)
		if err != nil {
			return nil, nil, fmt.Errorf("create user %q: %w", u.Key, err)
		}
		userIDs[u.Key] = user.ID
	}

	filmIDs := make(map[string]int64, len(fx.Films))
	for _, f := range fx.Films {
		release, _ := time.Parse(validation.DateLayout, f.ReleaseDate)
		params := repository.FilmParams{
			Name:        f.Name,
			Description: f.Description,
			ReleaseDate: release,
			Duration:    f.Duration,
			MpaID:       f.MpaID,
			GenreIDs:    f.GenreIDs,
		}
		for _, name := range f.Directors {
			id, ok := directorIDs[name]
			if !ok {
				return nil, nil, fmt.Errorf("film %q: unknown director %q", f.Key, name)
			}
			params.DirectorIDs = append(params.DirectorIDs, id)
		}
		film, err := repo.Films.Create(ctx, params)
		if err != nil {
			return nil, nil, fmt.Errorf("create film %q: %w", f.Key, err)
		}
		filmIDs[f.Key] = film.ID
	}

	if err := applyLikes(ctx, repo.Likes, fx.Likes, userIDs, filmIDs); err != nil {
		return nil, nil, err
	}
	logger.Info().Msg("fixture written to database")

	engine := recommend.NewEngine(recommend.Deps{
		Films:  repo.Films,
		Users:  repo.Users,
		Likes:  repo.Likes,
		Counts: repo.Likes,
	}, logger)
	return engine, userIDs, nil
}

func loadMemory(ctx context.Context, fx fixture, logger zerolog.Logger) (*recommend.Engine, map[string]int64, error) {
	cat := newMemoryCatalog()

	userIDs := make(map[string]int64, len(fx.Users))
	for i, u := range fx.Users {
		id := int64(i + 1)
		userIDs[u.Key] = id
		cat.users = append(cat.users, id)
	}

	filmIDs := make(map[string]int64, len(fx.Films))
	for i, f := range fx.Films {
		id := int64(i + 1)
		release, _ := time.Parse(validation.DateLayout, f.ReleaseDate)
		film := domain.Film{
			ID:          id,
			Name:        f.Name,
			Description: f.Description,
			ReleaseDate: release,
			Duration:    f.Duration,
			Mpa:         domain.Mpa{ID: f.MpaID},
		}
		for _, g := range f.GenreIDs {
			film.Genres = append(film.Genres, domain.Genre{ID: g})
		}
		filmIDs[f.Key] = id
		cat.add(film)
	}

	likes := recommend.NewMemoryLikes()
	if err := applyLikes(ctx, likes, fx.Likes, userIDs, filmIDs); err != nil {
		return nil, nil, err
	}

	engine := recommend.NewEngine(recommend.Deps{
		Films:  cat,
		Users:  cat,
		Likes:  likes,
		Counts: likes,
	}, logger)
	return engine, userIDs, nil
}

func applyLikes(ctx context.Context, dst recommend.LikeStore, likes []likeEntry, userIDs, filmIDs map[string]int64) error {
	for _, l := range likes {
		userID, ok := userIDs[l.User]
		if !ok {
			return fmt.Errorf("like: unknown user %q", l.User)
		}
		filmID, ok := filmIDs[l.Film]
		if !ok {
			return fmt.Errorf("like: unknown film %q", l.Film)
		}
		if err := dst.AddLike(ctx, userID, filmID); err != nil {
			return fmt.Errorf("like %s -> %s: %w", l.User, l.Film, err)
		}
	}
	return nil
}

type popularLine struct {
	Rank int    `json:"rank"`
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type summary struct {
	Popular         []popularLine       `json:"popular"`
	Recommendations map[string][]string `json:"recommendations"`
}

func report(ctx context.Context, engine *recommend.Engine, fx fixture, userIDs map[string]int64, count int) error {
	popular, err := engine.Popular(ctx, recommend.RankOptions{Limit: count})
	if err != nil {
		return err
	}
	out := summary{Recommendations: make(map[string][]string, len(fx.Users))}
	for i, f := range popular {
		out.Popular = append(out.Popular, popularLine{Rank: i + 1, ID: f.ID, Name: f.Name})
	}
	for _, u := range fx.Users {
		films, err := engine.Recommend(ctx, userIDs[u.Key])
		if err != nil {
			return fmt.Errorf("recommend for %q: %w", u.Key, err)
		}
		names := make([]string, 0, len(films))
		for _, f := range films {
			names = append(names, f.Name)
		}
		out.Recommendations[u.Key] = names
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
