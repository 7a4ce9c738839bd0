package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/filmorate/internal/recommend"
)

const sampleFixture = "../../db/seed/sample.json"

func TestLoadFixture_Sample(t *testing.T) {
	fx, err := loadFixture(sampleFixture)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if len(fx.Users) != 4 || len(fx.Films) != 5 || len(fx.Likes) != 8 {
		t.Fatalf("unexpected sample sizes: %d users, %d films, %d likes", len(fx.Users), len(fx.Films), len(fx.Likes))
	}
}

func TestLoadFixture_Invalid(t *testing.T) {
	cases := map[string]string{
		"malformed":    `{"users": [`,
		"early film":   `{"films":[{"key":"f","name":"F","releaseDate":"1800-01-01","duration":10,"mpaId":1}]}`,
		"bad login":    `{"users":[{"key":"u","email":"u@x.io","login":"a b"}]}`,
		"missing user": `{"likes":[{"film":"f"}]}`,
	}
	dir := t.TempDir()
	for name, body := range cases {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".json")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := loadFixture(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadMemory_RanksSample(t *testing.T) {
	fx, err := loadFixture(sampleFixture)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	ctx := context.Background()
	engine, userIDs, err := loadMemory(ctx, fx, zerolog.Nop())
	if err != nil {
		t.Fatalf("load memory: %v", err)
	}

	popular, err := engine.Popular(ctx, recommend.RankOptions{Limit: 10})
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	want := []string{"Spirited Away", "Solaris", "Stalker", "My Neighbor Totoro", "Nanook of the North"}
	if len(popular) != len(want) {
		t.Fatalf("popular = %d films, want %d", len(popular), len(want))
	}
	for i, f := range popular {
		if f.Name != want[i] {
			t.Fatalf("popular[%d] = %s, want %s", i, f.Name, want[i])
		}
	}

	recs, err := engine.Recommend(ctx, userIDs["ann"])
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "Spirited Away" {
		t.Fatalf("recommendations for ann = %+v", recs)
	}
}

func TestApplyLikes_UnknownKeys(t *testing.T) {
	likes := recommend.NewMemoryLikes()
	users := map[string]int64{"u": 1}
	films := map[string]int64{"f": 1}

	if err := applyLikes(context.Background(), likes, []likeEntry{{User: "x", Film: "f"}}, users, films); err == nil {
		t.Fatalf("expected unknown user error")
	}
	if err := applyLikes(context.Background(), likes, []likeEntry{{User: "u", Film: "x"}}, users, films); err == nil {
		t.Fatalf("expected unknown film error")
	}
}
