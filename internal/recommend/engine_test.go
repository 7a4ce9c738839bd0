package recommend

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/filmorate/internal/metrics"
)

func newTestEngine(c *catalog, likes *MemoryLikes) *Engine {
	return NewEngine(Deps{Films: c, Users: c, Likes: likes, Counts: likes}, zerolog.Nop())
}

func TestMemoryLikes_Idempotent(t *testing.T) {
	ctx := context.Background()
	likes := NewMemoryLikes()

	for i := 0; i < 2; i++ {
		if err := likes.AddLike(ctx, 1, 10); err != nil {
			t.Fatalf("AddLike: %v", err)
		}
	}
	likers, _ := likes.LikersOf(ctx, 10)
	if len(likers) != 1 {
		t.Fatalf("likers after double add = %d, want 1", len(likers))
	}
	counts, _ := likes.LikeCounts(ctx)
	if counts[10] != 1 {
		t.Fatalf("count after double add = %d, want 1", counts[10])
	}

	if err := likes.RemoveLike(ctx, 2, 10); err != nil {
		t.Fatalf("RemoveLike absent pair: %v", err)
	}
	if err := likes.RemoveLike(ctx, 1, 10); err != nil {
		t.Fatalf("RemoveLike: %v", err)
	}
	if err := likes.RemoveLike(ctx, 1, 10); err != nil {
		t.Fatalf("RemoveLike twice: %v", err)
	}
	mine, _ := likes.LikesOf(ctx, 1)
	if len(mine) != 0 {
		t.Fatalf("likes after remove = %v, want empty", mine)
	}
	counts, _ = likes.LikeCounts(ctx)
	if _, ok := counts[10]; ok {
		t.Fatalf("film 10 still counted after remove")
	}
}

func TestMemoryLikes_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	likes := NewMemoryLikes()
	mustLike(likes, [2]int64{1, 1})

	mine, _ := likes.LikesOf(ctx, 1)
	mine[2] = struct{}{}

	again, _ := likes.LikesOf(ctx, 1)
	if len(again) != 1 {
		t.Fatalf("caller mutation leaked into store: %v", again)
	}
}

func TestMemoryLikes_CountsMatchLikers(t *testing.T) {
	ctx := context.Background()
	likes := NewMemoryLikes()
	mustLike(likes, [2]int64{1, 10}, [2]int64{2, 10}, [2]int64{3, 10}, [2]int64{1, 20}, [2]int64{2, 30}, [2]int64{2, 30})

	counts, err := likes.LikeCounts(ctx)
	if err != nil {
		t.Fatalf("LikeCounts: %v", err)
	}
	for _, film := range []int64{10, 20, 30, 40} {
		likers, err := likes.LikersOf(ctx, film)
		if err != nil {
			t.Fatalf("LikersOf(%d): %v", film, err)
		}
		if counts[film] != len(likers) {
			t.Fatalf("film %d: count %d, likers %d", film, counts[film], len(likers))
		}
	}
}

func TestMemoryLikes_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	likes := NewMemoryLikes()
	const workers = 10

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			_ = likes.AddLike(ctx, user, 1)
			_ = likes.AddLike(ctx, user, 1)
		}(int64(i))
	}
	wg.Wait()

	likers, _ := likes.LikersOf(ctx, 1)
	if len(likers) != workers {
		t.Fatalf("likers = %d, want %d", len(likers), workers)
	}
}

func TestEngine_Popular(t *testing.T) {
	c := newCatalog(film(1, 2000), film(2, 2000), film(3, 2001))
	likes := NewMemoryLikes()
	mustLike(likes, [2]int64{1, 3}, [2]int64{2, 3}, [2]int64{1, 2})
	engine := newTestEngine(c, likes)

	got, err := engine.Popular(context.Background(), RankOptions{Limit: 10})
	if err != nil {
		t.Fatalf("Popular: %v", err)
	}
	if want := []int64{3, 2, 1}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("Popular = %v, want %v", ids(got), want)
	}

	// likes are re-read on each call
	mustLike(likes, [2]int64{3, 1}, [2]int64{4, 1}, [2]int64{5, 1})
	got, err = engine.Popular(context.Background(), RankOptions{Limit: 1})
	if err != nil {
		t.Fatalf("Popular: %v", err)
	}
	if want := []int64{1}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("Popular after new likes = %v, want %v", ids(got), want)
	}
}

func TestEngine_PopularRejectsZeroCount(t *testing.T) {
	engine := newTestEngine(newCatalog(film(1, 2000)), NewMemoryLikes())
	before := testutil.ToFloat64(metrics.RankingRequests.WithLabelValues("rejected"))

	if _, err := engine.Popular(context.Background(), RankOptions{Limit: 0}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Popular(0) error = %v, want ErrInvalidArgument", err)
	}
	after := testutil.ToFloat64(metrics.RankingRequests.WithLabelValues("rejected"))
	if after != before+1 {
		t.Fatalf("rejected counter = %v, want %v", after, before+1)
	}
}

func TestEngine_PopularStoreError(t *testing.T) {
	c := newCatalog()
	c.listErr = errStoreDown
	engine := newTestEngine(c, NewMemoryLikes())

	if _, err := engine.Popular(context.Background(), RankOptions{Limit: 5}); !errors.Is(err, errStoreDown) {
		t.Fatalf("Popular error = %v, want %v", err, errStoreDown)
	}
}

func TestEngine_RecommendCountsOutcome(t *testing.T) {
	c := newCatalog(film(1, 2000), film(2, 2000))
	c.users = []int64{1, 2}
	likes := NewMemoryLikes()
	mustLike(likes, [2]int64{1, 1}, [2]int64{2, 1}, [2]int64{2, 2})
	engine := newTestEngine(c, likes)

	okBefore := testutil.ToFloat64(metrics.RecommendationRequests.WithLabelValues("ok"))
	emptyBefore := testutil.ToFloat64(metrics.RecommendationRequests.WithLabelValues("empty"))

	got, err := engine.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if want := []int64{2}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("Recommend = %v, want %v", ids(got), want)
	}
	if _, err := engine.Recommend(context.Background(), 3); err != nil {
		t.Fatalf("Recommend unknown: %v", err)
	}

	if got := testutil.ToFloat64(metrics.RecommendationRequests.WithLabelValues("ok")); got != okBefore+1 {
		t.Fatalf("ok counter = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(metrics.RecommendationRequests.WithLabelValues("empty")); got != emptyBefore+1 {
		t.Fatalf("empty counter = %v, want %v", got, emptyBefore+1)
	}
}

func TestEngine_CommonFilms(t *testing.T) {
	c := newCatalog(film(1, 2000), film(2, 2000), film(3, 2000), film(4, 2000))
	likes := NewMemoryLikes()
	mustLike(likes,
		[2]int64{1, 1}, [2]int64{1, 2}, [2]int64{1, 3},
		[2]int64{2, 1}, [2]int64{2, 2}, [2]int64{2, 4},
		[2]int64{3, 2},
	)
	engine := newTestEngine(c, likes)

	got, err := engine.CommonFilms(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("CommonFilms: %v", err)
	}
	if want := []int64{2, 1}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("CommonFilms = %v, want %v", ids(got), want)
	}

	got, err = engine.CommonFilms(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("CommonFilms: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("CommonFilms with stranger = %v, want empty", ids(got))
	}
}
