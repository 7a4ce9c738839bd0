package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

type filmPayload struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"max=200"`
	ReleaseDate string `json:"releaseDate" validate:"releasedate"`
	Duration    int    `json:"duration" validate:"gt=0"`
}

type userPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required,nospace"`
	Birthday string `json:"birthday" validate:"pastdate"`
}

func TestStruct_Film(t *testing.T) {
	valid := filmPayload{Name: "Nosferatu", ReleaseDate: "1922-03-04", Duration: 94}
	if err := Struct(valid); err != nil {
		t.Fatalf("valid film rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(p *filmPayload)
		wantTag string
		field   string
	}{
		{"blank name", func(p *filmPayload) { p.Name = "" }, "required", "name"},
		{"long description", func(p *filmPayload) { p.Description = strings.Repeat("x", 201) }, "max", "description"},
		{"too early", func(p *filmPayload) { p.ReleaseDate = "1895-12-27" }, "releasedate", "releaseDate"},
		{"malformed date", func(p *filmPayload) { p.ReleaseDate = "04/03/1922" }, "releasedate", "releaseDate"},
		{"zero duration", func(p *filmPayload) { p.Duration = 0 }, "gt", "duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := Struct(p)
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("Struct error = %v, want *Error", err)
			}
			if len(verr.Fields) != 1 || verr.Fields[0].Tag != tt.wantTag || verr.Fields[0].Field != tt.field {
				t.Fatalf("fields = %+v, want %s on %s", verr.Fields, tt.wantTag, tt.field)
			}
		})
	}

	boundary := valid
	boundary.ReleaseDate = "1895-12-28"
	if err := Struct(boundary); err != nil {
		t.Fatalf("first screening date rejected: %v", err)
	}
}

func TestStruct_User(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { now = restore }()

	tests := []struct {
		name    string
		payload userPayload
		wantErr string
	}{
		{"valid", userPayload{Email: "a@b.io", Login: "neo", Birthday: "1990-01-01"}, ""},
		{"no birthday", userPayload{Email: "a@b.io", Login: "neo"}, ""},
		{"bad email", userPayload{Email: "nope", Login: "neo"}, "email must be a valid email address"},
		{"login with space", userPayload{Email: "a@b.io", Login: "n eo"}, "login must not contain spaces"},
		{"future birthday", userPayload{Email: "a@b.io", Login: "neo", Birthday: "2030-01-01"}, "birthday must be"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.payload)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Struct error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

func TestMustRegister_PanicsOnBadTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an empty tag name")
		}
	}()
	mustRegister(validator.New(), "", validNoSpace)
}

func TestGet_RegistersCustomTags(t *testing.T) {
	type tagged struct {
		Release  string `validate:"releasedate"`
		Birthday string `validate:"pastdate"`
		Login    string `validate:"nospace"`
	}
	if err := Get().Struct(tagged{Release: "2000-01-01", Login: "neo"}); err != nil {
		t.Fatalf("custom tags not registered: %v", err)
	}
}
