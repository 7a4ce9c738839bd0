package httpserver

import (
	"net/url"
	"testing"

	"github.com/Clark-Hu/filmorate/internal/recommend"
)

func TestBuildPopularOptions(t *testing.T) {
	values, _ := url.ParseQuery("count= 5 &genreId=2&year=1999")

	opts, err := buildPopularOptions(values, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Limit != 5 {
		t.Fatalf("count not parsed: %d", opts.Limit)
	}
	if opts.GenreID == nil || *opts.GenreID != 2 {
		t.Fatalf("genreId parse failed: %+v", opts.GenreID)
	}
	if opts.Year == nil || *opts.Year != 1999 {
		t.Fatalf("year parse failed: %+v", opts.Year)
	}
}

func TestBuildPopularOptions_Defaults(t *testing.T) {
	opts, err := buildPopularOptions(url.Values{}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Limit != 7 || opts.GenreID != nil || opts.Year != nil {
		t.Fatalf("unexpected defaults: %+v", opts)
	}

	opts, _ = buildPopularOptions(url.Values{}, 0)
	if opts.Limit != recommend.DefaultPopularCount {
		t.Fatalf("limit = %d, want %d when no default configured", opts.Limit, recommend.DefaultPopularCount)
	}
}

func TestBuildPopularOptions_PassesNonPositiveCount(t *testing.T) {
	values, _ := url.ParseQuery("count=0")
	opts, err := buildPopularOptions(values, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Limit != 0 {
		t.Fatalf("limit = %d, want 0 forwarded for the engine to reject", opts.Limit)
	}
}

func TestBuildPopularOptions_Invalid(t *testing.T) {
	for _, raw := range []string{"count=abc", "genreId=x", "year=19.99", "count=1e3"} {
		values, _ := url.ParseQuery(raw)
		if _, err := buildPopularOptions(values, 10); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParsePositiveID(t *testing.T) {
	cases := []struct {
		raw string
		id  int64
		ok  bool
	}{
		{"1", 1, true},
		{" 42 ", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		id, err := parsePositiveID("id", c.raw)
		if (err == nil) != c.ok || id != c.id {
			t.Fatalf("parsePositiveID(%q) = %d, %v; want %d ok=%v", c.raw, id, err, c.id, c.ok)
		}
	}
}
