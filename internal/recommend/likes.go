package recommend

import (
	"context"
	"sync"
)

// LikeReader exposes the user -> liked films view of the like relation.
type LikeReader interface {
	// LikesOf returns the ids of films the user liked. Unknown users yield an empty set.
	LikesOf(ctx context.Context, userID int64) (map[int64]struct{}, error)
}

// LikeStore is the full like-relation contract. AddLike and RemoveLike are
// idempotent; uniqueness of (user, film) is enforced by the implementation.
type LikeStore interface {
	LikeReader
	LikersOf(ctx context.Context, filmID int64) (map[int64]struct{}, error)
	AddLike(ctx context.Context, userID, filmID int64) error
	RemoveLike(ctx context.Context, userID, filmID int64) error
}

// LikeCounter reports the distinct-liker count of every film that has likes.
// LikeCounts()[f] is the batched form of len(LikersOf(f)).
type LikeCounter interface {
	LikeCounts(ctx context.Context) (map[int64]int, error)
}

// MemoryLikes is an in-process LikeStore. The zero value is not usable; call NewMemoryLikes.
type MemoryLikes struct {
	mu     sync.RWMutex
	byUser map[int64]map[int64]struct{}
	byFilm map[int64]map[int64]struct{}
}

// NewMemoryLikes returns an empty relation.
func NewMemoryLikes() *MemoryLikes {
	return &MemoryLikes{
		byUser: make(map[int64]map[int64]struct{}),
		byFilm: make(map[int64]map[int64]struct{}),
	}
}

func (m *MemoryLikes) AddLike(_ context.Context, userID, filmID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	addPair(m.byUser, userID, filmID)
	addPair(m.byFilm, filmID, userID)
	return nil
}

func (m *MemoryLikes) RemoveLike(_ context.Context, userID, filmID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	removePair(m.byUser, userID, filmID)
	removePair(m.byFilm, filmID, userID)
	return nil
}

func (m *MemoryLikes) LikesOf(_ context.Context, userID int64) (map[int64]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySet(m.byUser[userID]), nil
}

func (m *MemoryLikes) LikersOf(_ context.Context, filmID int64) (map[int64]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySet(m.byFilm[filmID]), nil
}

func (m *MemoryLikes) LikeCounts(_ context.Context) (map[int64]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[int64]int, len(m.byFilm))
	for filmID, likers := range m.byFilm {
		counts[filmID] = len(likers)
	}
	return counts, nil
}

func addPair(index map[int64]map[int64]struct{}, key, value int64) {
	set, ok := index[key]
	if !ok {
		set = make(map[int64]struct{})
		index[key] = set
	}
	set[value] = struct{}{}
}

func removePair(index map[int64]map[int64]struct{}, key, value int64) {
	set, ok := index[key]
	if !ok {
		return
	}
	delete(set, value)
	if len(set) == 0 {
		delete(index, key)
	}
}

func copySet(src map[int64]struct{}) map[int64]struct{} {
	dst := make(map[int64]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}
