package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Clark-Hu/filmorate/internal/domain"
	"github.com/Clark-Hu/filmorate/internal/metrics"
	"github.com/Clark-Hu/filmorate/internal/recommend"
	"github.com/Clark-Hu/filmorate/internal/repository"
	"github.com/Clark-Hu/filmorate/internal/validation"
)

type idRef struct {
	ID int64 `json:"id" validate:"gt=0"`
}

type filmRequest struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"max=200"`
	ReleaseDate string  `json:"releaseDate" validate:"releasedate"`
	Duration    int     `json:"duration" validate:"gt=0"`
	Mpa         *idRef  `json:"mpa" validate:"required"`
	Genres      []idRef `json:"genres" validate:"omitempty,dive"`
	Directors   []idRef `json:"directors" validate:"omitempty,dive"`
}

type filmResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ReleaseDate string            `json:"releaseDate"`
	Duration    int               `json:"duration"`
	Mpa         domain.Mpa        `json:"mpa"`
	Genres      []domain.Genre    `json:"genres"`
	Directors   []domain.Director `json:"directors"`
}

func (req *filmRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
}

func (req filmRequest) params() (repository.FilmParams, error) {
	releaseDate, err := time.Parse(validation.DateLayout, req.ReleaseDate)
	if err != nil {
		return repository.FilmParams{}, err
	}
	return repository.FilmParams{
		Name:        req.Name,
		Description: req.Description,
		ReleaseDate: releaseDate,
		Duration:    req.Duration,
		MpaID:       req.Mpa.ID,
		GenreIDs:    refIDs(req.Genres),
		DirectorIDs: refIDs(req.Directors),
	}, nil
}

func refIDs(refs []idRef) []int64 {
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

func (s *Server) handleListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := s.repo.Films.ListFilms(r.Context())
	if err != nil {
		s.respondRepoError(w, err, "list films")
		return
	}
	s.respondJSON(w, http.StatusOK, toFilmResponses(films))
}

func (s *Server) handleGetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	film, err := s.repo.Films.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err, "fetch film")
		return
	}
	s.respondJSON(w, http.StatusOK, toFilmResponse(film))
}

func (s *Server) handleCreateFilm(w http.ResponseWriter, r *http.Request) {
	var req filmRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	params, err := req.params()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "releaseDate must follow YYYY-MM-DD format")
		return
	}

	film, err := s.repo.Films.Create(r.Context(), params)
	if err != nil {
		s.respondRepoError(w, err, "create film")
		return
	}
	s.logger.Info().Int64("film_id", film.ID).Msg("film created")

	w.Header().Set("Location", fmt.Sprintf("/films/%d", film.ID))
	s.respondJSON(w, http.StatusCreated, toFilmResponse(film))
}

func (s *Server) handleUpdateFilm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	var req filmRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ID != 0 && req.ID != id {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "body id does not match path id")
		return
	}
	params, err := req.params()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "releaseDate must follow YYYY-MM-DD format")
		return
	}

	film, err := s.repo.Films.Update(r.Context(), id, params)
	if err != nil {
		s.respondRepoError(w, err, "update film")
		return
	}
	s.respondJSON(w, http.StatusOK, toFilmResponse(film))
}

func (s *Server) handleDeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.repo.Films.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, err, "delete film")
		return
	}
	s.logger.Info().Int64("film_id", id).Msg("film deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePopularFilms(w http.ResponseWriter, r *http.Request) {
	opts, err := buildPopularOptions(r.URL.Query(), s.cfg.PopularDefaultCount)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	films, err := s.engine.Popular(r.Context(), opts)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidArgument) {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "count must be positive")
			return
		}
		s.logger.Error().Err(err).Msg("rank popular films")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to rank films")
		return
	}
	s.respondJSON(w, http.StatusOK, toFilmResponses(films))
}

// buildPopularOptions parses count, genreId and year. A missing count falls back to
// defaultCount; range checks on count are left to the ranking engine.
func buildPopularOptions(query url.Values, defaultCount int) (recommend.RankOptions, error) {
	opts := recommend.RankOptions{Limit: defaultCount}
	if opts.Limit <= 0 {
		opts.Limit = recommend.DefaultPopularCount
	}

	if val := strings.TrimSpace(query.Get("count")); val != "" {
		count, err := strconv.Atoi(val)
		if err != nil {
			return opts, fmt.Errorf("invalid count value")
		}
		opts.Limit = count
	}
	if val := strings.TrimSpace(query.Get("genreId")); val != "" {
		genreID, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid genreId value")
		}
		opts.GenreID = &genreID
	}
	if val := strings.TrimSpace(query.Get("year")); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil {
			return opts, fmt.Errorf("invalid year value")
		}
		opts.Year = &year
	}
	return opts, nil
}

func (s *Server) handleCommonFilms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID, err := parsePositiveID("userId", query.Get("userId"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	friendID, err := parsePositiveID("friendId", query.Get("friendId"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	for _, id := range []int64{userID, friendID} {
		if !s.requireUser(w, r, id) {
			return
		}
	}

	films, err := s.engine.CommonFilms(r.Context(), userID, friendID)
	if err != nil {
		s.respondRepoError(w, err, "load common films")
		return
	}
	s.respondJSON(w, http.StatusOK, toFilmResponses(films))
}

func (s *Server) handleAddLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := s.likeTarget(w, r)
	if !ok {
		return
	}
	if err := s.repo.Likes.AddLike(r.Context(), userID, filmID); err != nil {
		s.respondRepoError(w, err, "add like")
		return
	}
	metrics.LikeMutations.WithLabelValues("add").Inc()
	s.logger.Debug().Int64("film_id", filmID).Int64("user_id", userID).Msg("like added")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := s.likeTarget(w, r)
	if !ok {
		return
	}
	if err := s.repo.Likes.RemoveLike(r.Context(), userID, filmID); err != nil {
		s.respondRepoError(w, err, "remove like")
		return
	}
	metrics.LikeMutations.WithLabelValues("remove").Inc()
	s.logger.Debug().Int64("film_id", filmID).Int64("user_id", userID).Msg("like removed")
	w.WriteHeader(http.StatusNoContent)
}

// likeTarget resolves the {id} and {userId} parameters and checks both rows exist.
func (s *Server) likeTarget(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	filmID, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return 0, 0, false
	}
	userID, err := parseID(r, "userId")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return 0, 0, false
	}

	exists, err := s.repo.Films.Exists(r.Context(), filmID)
	if err != nil {
		s.respondRepoError(w, err, "resolve film")
		return 0, 0, false
	}
	if !exists {
		s.respondNotFound(w, "film", filmID)
		return 0, 0, false
	}
	if !s.requireUser(w, r, userID) {
		return 0, 0, false
	}
	return filmID, userID, true
}

func toFilmResponse(film domain.Film) filmResponse {
	resp := filmResponse{
		ID:          film.ID,
		Name:        film.Name,
		Description: film.Description,
		ReleaseDate: film.ReleaseDate.Format(validation.DateLayout),
		Duration:    film.Duration,
		Mpa:         film.Mpa,
		Genres:      film.Genres,
		Directors:   film.Directors,
	}
	if resp.Genres == nil {
		resp.Genres = []domain.Genre{}
	}
	if resp.Directors == nil {
		resp.Directors = []domain.Director{}
	}
	return resp
}

func toFilmResponses(films []domain.Film) []filmResponse {
	out := make([]filmResponse, 0, len(films))
	for _, film := range films {
		out = append(out, toFilmResponse(film))
	}
	return out
}
