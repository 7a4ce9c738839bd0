package httpserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func BenchmarkHandlePopularFilms(b *testing.B) {
	srv := buildTestServer(b)

	films := make([]int64, 0, 50)
	for i := 0; i < 50; i++ {
		films = append(films, seedFilm(b, srv, fmt.Sprintf("Bench %d", i), 1990+i%20, int64(i%6+1)).ID)
	}
	for u := 0; u < 20; u++ {
		user := seedUser(b, srv, fmt.Sprintf("bench%d", u))
		for i := u; i < len(films); i += 3 {
			if err := srv.repo.Likes.AddLike(b.Context(), user.ID, films[i]); err != nil {
				b.Fatalf("like: %v", err)
			}
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/films/popular?count=10&genreId=2", nil)
		rec := httptest.NewRecorder()
		srv.handlePopularFilms(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
