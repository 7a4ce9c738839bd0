package recommend

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/Clark-Hu/filmorate/internal/domain"
)

func TestRank_OrderAndTieBreak(t *testing.T) {
	// A(3), B(1), C(3), D(0)
	films := []domain.Film{film(4, 2000), film(3, 2000), film(2, 2000), film(1, 2000)}
	counts := map[int64]int{1: 3, 2: 1, 3: 3}

	got, err := Rank(films, counts, RankOptions{Limit: 10})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	want := []int64{1, 3, 2, 4}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("Rank order = %v, want %v", ids(got), want)
	}
}

func TestRank_RejectsNonPositiveLimit(t *testing.T) {
	for _, limit := range []int{0, -1} {
		_, err := Rank([]domain.Film{film(1, 2000)}, nil, RankOptions{Limit: limit})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Rank(limit=%d) error = %v, want ErrInvalidArgument", limit, err)
		}
	}
}

func TestRank_Filters(t *testing.T) {
	films := []domain.Film{
		film(1, 1999, 1),
		film(2, 2000, 1, 2),
		film(3, 2000, 2),
		film(4, 2000),
	}
	counts := map[int64]int{1: 5, 2: 1, 3: 2}
	genre := int64(2)
	year := 2000
	otherGenre := int64(1)

	tests := []struct {
		name string
		opts RankOptions
		want []int64
	}{
		{"no filter", RankOptions{Limit: 10}, []int64{1, 3, 2, 4}},
		{"genre", RankOptions{Limit: 10, GenreID: &genre}, []int64{3, 2}},
		{"year", RankOptions{Limit: 10, Year: &year}, []int64{3, 2, 4}},
		{"genre and year", RankOptions{Limit: 10, GenreID: &otherGenre, Year: &year}, []int64{2}},
		{"limit", RankOptions{Limit: 2}, []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rank(films, counts, tt.opts)
			if err != nil {
				t.Fatalf("Rank: %v", err)
			}
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Fatalf("Rank = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	films := []domain.Film{film(2, 2000), film(1, 2000)}
	if _, err := Rank(films, map[int64]int{1: 1}, RankOptions{Limit: 1}); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if films[0].ID != 2 || films[1].ID != 1 {
		t.Fatalf("input reordered: %v", ids(films))
	}
}

func TestRank_Properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		n := rnd.Intn(30) + 1
		films := make([]domain.Film, 0, n)
		counts := make(map[int64]int)
		for i := 0; i < n; i++ {
			id := int64(i + 1)
			films = append(films, film(id, 1990+rnd.Intn(5), int64(rnd.Intn(3)+1)))
			counts[id] = rnd.Intn(4)
		}
		rnd.Shuffle(len(films), func(i, j int) { films[i], films[j] = films[j], films[i] })
		genre := int64(rnd.Intn(3) + 1)
		opts := RankOptions{Limit: n, GenreID: &genre}

		qualifying := 0
		for _, f := range films {
			if opts.Matches(f) {
				qualifying++
			}
		}

		full, err := Rank(films, counts, opts)
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		if len(full) != qualifying {
			t.Fatalf("round %d: got %d films, want %d qualifying", round, len(full), qualifying)
		}
		seen := make(map[int64]bool)
		for i, f := range full {
			if seen[f.ID] {
				t.Fatalf("round %d: film %d returned twice", round, f.ID)
			}
			seen[f.ID] = true
			if i > 0 && counts[full[i-1].ID] < counts[f.ID] {
				t.Fatalf("round %d: order not non-increasing at %d", round, i)
			}
		}

		k := rnd.Intn(n) + 1
		opts.Limit = k
		capped, err := Rank(films, counts, opts)
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		want := k
		if qualifying < k {
			want = qualifying
		}
		if len(capped) != want {
			t.Fatalf("round %d: limit %d gave %d films, want %d", round, k, len(capped), want)
		}
		if !reflect.DeepEqual(ids(capped), ids(full[:want])) {
			t.Fatalf("round %d: capped ranking is not a prefix of the full ranking", round)
		}
	}
}

func FuzzRank(f *testing.F) {
	f.Add(3, int64(1), 2000, uint8(5))
	f.Add(0, int64(0), 0, uint8(0))
	f.Add(-4, int64(2), 1999, uint8(9))

	f.Fuzz(func(t *testing.T, limit int, genre int64, year int, size uint8) {
		films := make([]domain.Film, 0, size)
		counts := make(map[int64]int)
		for i := 0; i < int(size); i++ {
			id := int64(i + 1)
			films = append(films, film(id, 1998+i%3, int64(i%3)))
			counts[id] = i % 4
		}
		got, err := Rank(films, counts, RankOptions{Limit: limit, GenreID: &genre, Year: &year})
		if limit <= 0 {
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("limit %d accepted", limit)
			}
			return
		}
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		if len(got) > limit {
			t.Fatalf("Rank returned %d films over limit %d", len(got), limit)
		}
	})
}

func BenchmarkRank(b *testing.B) {
	films := make([]domain.Film, 0, 5000)
	counts := make(map[int64]int)
	for i := 0; i < 5000; i++ {
		id := int64(i + 1)
		films = append(films, film(id, 2000+i%20, int64(i%10)))
		counts[id] = i % 97
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Rank(films, counts, RankOptions{Limit: 10}); err != nil {
			b.Fatalf("Rank: %v", err)
		}
	}
}
