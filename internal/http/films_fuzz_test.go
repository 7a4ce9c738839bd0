package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildPopularOptions(f *testing.F) {
	seeds := []string{
		"count=10&genreId=1&year=1999",
		"count=0",
		"count=-5",
		"year=abc",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		opts, err := buildPopularOptions(values, 10)
		if err == nil && values.Get("count") == "" && opts.Limit != 10 {
			t.Fatalf("default count lost: %d", opts.Limit)
		}
	})
}
