package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Clark-Hu/filmorate/internal/domain"
	"github.com/Clark-Hu/filmorate/internal/repository"
	"github.com/Clark-Hu/filmorate/internal/validation"
)

type userRequest struct {
	ID       int64  `json:"id,omitempty"`
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required,nospace"`
	Name     string `json:"name"`
	Birthday string `json:"birthday" validate:"pastdate"`
}

type userResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday *string `json:"birthday,omitempty"`
}

func (req *userRequest) normalize() {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
}

func (req userRequest) params() (repository.UserParams, error) {
	params := repository.UserParams{
		Email: req.Email,
		Login: req.Login,
		Name:  req.Name,
	}
	if req.Birthday != "" {
		birthday, err := time.Parse(validation.DateLayout, req.Birthday)
		if err != nil {
			return repository.UserParams{}, err
		}
		params.Birthday = &birthday
	}
	return params, nil
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.Users.List(r.Context())
	if err != nil {
		s.respondRepoError(w, err, "list users")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponses(users))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	user, err := s.repo.Users.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err, "fetch user")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	params, err := req.params()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "birthday must follow YYYY-MM-DD format")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), params)
	if err != nil {
		s.respondRepoError(w, err, "create user")
		return
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("user created")

	w.Header().Set("Location", fmt.Sprintf("/users/%d", user.ID))
	s.respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	var req userRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ID != 0 && req.ID != id {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "body id does not match path id")
		return
	}
	params, err := req.params()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "birthday must follow YYYY-MM-DD format")
		return
	}

	user, err := s.repo.Users.Update(r.Context(), id, params)
	if err != nil {
		s.respondRepoError(w, err, "update user")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.repo.Users.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, err, "delete user")
		return
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if !s.requireUser(w, r, id) {
		return
	}

	films, err := s.engine.Recommend(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("recommend films")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build recommendations")
		return
	}
	s.respondJSON(w, http.StatusOK, toFilmResponses(films))
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if !s.requireUser(w, r, id) {
		return
	}
	friends, err := s.repo.Friends.List(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err, "list friends")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponses(friends))
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	id, friendID, ok := s.friendPair(w, r, "friendId")
	if !ok {
		return
	}
	if err := s.repo.Friends.Add(r.Context(), id, friendID); err != nil {
		s.respondRepoError(w, err, "add friend")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	id, friendID, ok := s.friendPair(w, r, "friendId")
	if !ok {
		return
	}
	if err := s.repo.Friends.Remove(r.Context(), id, friendID); err != nil {
		s.respondRepoError(w, err, "remove friend")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommonFriends(w http.ResponseWriter, r *http.Request) {
	id, otherID, ok := s.friendPair(w, r, "otherId")
	if !ok {
		return
	}
	common, err := s.repo.Friends.Common(r.Context(), id, otherID)
	if err != nil {
		s.respondRepoError(w, err, "list common friends")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponses(common))
}

// friendPair resolves {id} and the named second user parameter; both users must exist
// and be distinct.
func (s *Server) friendPair(w http.ResponseWriter, r *http.Request, param string) (int64, int64, bool) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return 0, 0, false
	}
	otherID, err := parseID(r, param)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return 0, 0, false
	}
	if id == otherID {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "a user cannot befriend themselves")
		return 0, 0, false
	}
	if !s.requireUser(w, r, id) || !s.requireUser(w, r, otherID) {
		return 0, 0, false
	}
	return id, otherID, true
}

// requireUser writes a 404 and returns false when the user does not exist.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request, id int64) bool {
	exists, err := s.repo.Users.Exists(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err, "resolve user")
		return false
	}
	if !exists {
		s.respondNotFound(w, "user", id)
		return false
	}
	return true
}

func toUserResponse(user domain.User) userResponse {
	resp := userResponse{
		ID:    user.ID,
		Email: user.Email,
		Login: user.Login,
		Name:  user.DisplayName(),
	}
	if user.Birthday != nil {
		formatted := user.Birthday.Format(validation.DateLayout)
		resp.Birthday = &formatted
	}
	return resp
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	return out
}
