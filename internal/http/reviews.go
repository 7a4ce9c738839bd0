package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Clark-Hu/filmorate/internal/domain"
	"github.com/Clark-Hu/filmorate/internal/repository"
)

const defaultReviewCount = 10

type reviewRequest struct {
	ReviewID   int64  `json:"reviewId,omitempty"`
	Content    string `json:"content" validate:"required,max=2000"`
	IsPositive *bool  `json:"isPositive" validate:"required"`
	UserID     int64  `json:"userId" validate:"gt=0"`
	FilmID     int64  `json:"filmId" validate:"gt=0"`
	Useful     int64  `json:"useful,omitempty"`
}

type reviewResponse struct {
	ReviewID   int64  `json:"reviewId"`
	Content    string `json:"content"`
	IsPositive bool   `json:"isPositive"`
	UserID     int64  `json:"userId"`
	FilmID     int64  `json:"filmId"`
	Useful     int64  `json:"useful"`
}

func (req *reviewRequest) normalize() {
	req.Content = strings.TrimSpace(req.Content)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	count := defaultReviewCount
	if val := strings.TrimSpace(query.Get("count")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "count must be a positive integer")
			return
		}
		count = n
	}

	var filmID *int64
	if val := query.Get("filmId"); val != "" {
		id, err := parsePositiveID("filmId", val)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		exists, err := s.repo.Films.Exists(r.Context(), id)
		if err != nil {
			s.respondRepoError(w, err, "resolve film")
			return
		}
		if !exists {
			s.respondNotFound(w, "film", id)
			return
		}
		filmID = &id
	}

	reviews, err := s.repo.Reviews.List(r.Context(), filmID, count)
	if err != nil {
		s.respondRepoError(w, err, "list reviews")
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponses(reviews))
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	review, err := s.repo.Reviews.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err, "fetch review")
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponse(review))
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	review, err := s.repo.Reviews.Create(r.Context(), repository.ReviewParams{
		Content:    req.Content,
		IsPositive: *req.IsPositive,
		UserID:     req.UserID,
		FilmID:     req.FilmID,
	})
	if err != nil {
		s.respondRepoError(w, err, "create review")
		return
	}
	s.logger.Info().Int64("review_id", review.ID).Int64("film_id", review.FilmID).Msg("review created")

	w.Header().Set("Location", fmt.Sprintf("/reviews/%d", review.ID))
	s.respondJSON(w, http.StatusCreated, toReviewResponse(review))
}

// handleUpdateReview changes content and polarity only; userId, filmId and useful in the
// body are ignored.
func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	var req reviewRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ReviewID != 0 && req.ReviewID != id {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "body reviewId does not match path id")
		return
	}

	review, err := s.repo.Reviews.Update(r.Context(), id, req.Content, *req.IsPositive)
	if err != nil {
		s.respondRepoError(w, err, "update review")
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponse(review))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.repo.Reviews.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, err, "delete review")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ReviewID:   review.ID,
		Content:    review.Content,
		IsPositive: review.IsPositive,
		UserID:     review.UserID,
		FilmID:     review.FilmID,
		Useful:     review.Useful,
	}
}

func toReviewResponses(reviews []domain.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReviewResponse(review))
	}
	return out
}
