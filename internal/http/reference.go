package httpserver

import (
	"fmt"
	"net/http"
	"strings"
)

type directorRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (req *directorRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.repo.Genres.List(r.Context())
	if err != nil {
		s.respondRepoError(w, err, "list genres")
		return
	}
	s.respondJSON(w, http.StatusOK, genres)
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	genre, err := s.repo.Genres.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err, "fetch genre")
		return
	}
	s.respondJSON(w, http.StatusOK, genre)
}

func (s *Server) handleListMpa(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.repo.Mpa.List(r.Context())
	if err != nil {
		s.respondRepoError(w, err, "list mpa ratings")
		return
	}
	s.respondJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleGetMpa(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	rating, err := s.repo.Mpa.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err, "fetch mpa rating")
		return
	}
	s.respondJSON(w, http.StatusOK, rating)
}

func (s *Server) handleListDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := s.repo.Directors.List(r.Context())
	if err != nil {
		s.respondRepoError(w, err, "list directors")
		return
	}
	s.respondJSON(w, http.StatusOK, directors)
}

func (s *Server) handleGetDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	director, err := s.repo.Directors.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err, "fetch director")
		return
	}
	s.respondJSON(w, http.StatusOK, director)
}

func (s *Server) handleCreateDirector(w http.ResponseWriter, r *http.Request) {
	var req directorRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	director, err := s.repo.Directors.Create(r.Context(), req.Name)
	if err != nil {
		s.respondRepoError(w, err, "create director")
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/directors/%d", director.ID))
	s.respondJSON(w, http.StatusCreated, director)
}

func (s *Server) handleUpdateDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	var req directorRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	director, err := s.repo.Directors.Update(r.Context(), id, req.Name)
	if err != nil {
		s.respondRepoError(w, err, "update director")
		return
	}
	s.respondJSON(w, http.StatusOK, director)
}

func (s *Server) handleDeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.repo.Directors.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, err, "delete director")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
