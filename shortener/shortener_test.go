package shortener

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"keyword-shortener/config"
	"keyword-shortener/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	dir := t.TempDir()
	fs, err := store.NewFileStore(config.StorageConfig{
		URLsFile:     filepath.Join(dir, "urls.json"),
		UsersFile:    filepath.Join(dir, "users.json"),
		MessagesFile: filepath.Join(dir, "messages.json"),
	})
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return NewRegistry(fs)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"No scheme", "example.com", "http://example.com"},
		{"HTTP scheme kept", "http://example.com", "http://example.com"},
		{"HTTPS scheme kept", "https://example.com/path", "https://example.com/path"},
		{"Scheme-like path", "example.com/http://nested", "http://example.com/http://nested"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}

			// Normalizing an already-normalized URL must be a no-op
			if again := NormalizeURL(got); again != got {
				t.Errorf("NormalizeURL is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCreateAndResolve(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	link, err := r.Create(ctx, "go", "http://example.com", "alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if link.Owner != "alice" {
		t.Errorf("Owner = %q, want %q", link.Owner, "alice")
	}
	if got := link.ExpirationDate.Sub(link.CreatedAt); got != LinkTTL {
		t.Errorf("Expiration offset = %v, want %v", got, LinkTTL)
	}

	got, err := r.Resolve(ctx, "go")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "http://example.com" {
		t.Errorf("Resolve() = %q, want %q", got, "http://example.com")
	}
}

func TestCreateNormalizesURL(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	if _, err := r.Create(ctx, "site", "example.org", "bob"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := r.Resolve(ctx, "site")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "http://example.org" {
		t.Errorf("Resolve() = %q, want %q", got, "http://example.org")
	}
}

func TestCreateTrimsInput(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	link, err := r.Create(ctx, "  docs  ", "  example.net  ", "alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if link.Keyword != "docs" {
		t.Errorf("Keyword = %q, want %q", link.Keyword, "docs")
	}
	if link.OriginalURL != "http://example.net" {
		t.Errorf("OriginalURL = %q, want %q", link.OriginalURL, "http://example.net")
	}
}

func TestCreateRejectsEmptyInput(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	if _, err := r.Create(ctx, "   ", "example.com", "alice"); !errors.Is(err, ErrEmptyKeyword) {
		t.Errorf("Create() with blank keyword error = %v, want ErrEmptyKeyword", err)
	}
	if _, err := r.Create(ctx, "blog", "   ", "alice"); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("Create() with blank URL error = %v, want ErrEmptyURL", err)
	}
}

func TestCreateDuplicateKeyword(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	if _, err := r.Create(ctx, "go", "http://example.com", "alice"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := r.Create(ctx, "go", "http://other.example", "bob")
	if !errors.Is(err, store.ErrKeywordTaken) {
		t.Fatalf("Create() duplicate error = %v, want ErrKeywordTaken", err)
	}

	// First writer wins; the original record must be unchanged
	got, err := r.Resolve(ctx, "go")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "http://example.com" {
		t.Errorf("Resolve() after failed duplicate = %q, want original %q", got, "http://example.com")
	}
}

func TestResolveNotFound(t *testing.T) {
	r := newTestRegistry(t)

	if _, err := r.Resolve(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolveExpired(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	created := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return created }

	if _, err := r.Create(ctx, "go", "http://example.com", "alice"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		now     time.Time
		expired bool
	}{
		{"Immediately", created, false},
		{"Day 119", created.Add(119 * 24 * time.Hour), false},
		{"Exactly at expiration", created.Add(120 * 24 * time.Hour), true},
		{"Day 121", created.Add(121 * 24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.now = func() time.Time { return tt.now }

			got, err := r.Resolve(ctx, "go")
			if tt.expired {
				if !errors.Is(err, ErrExpired) {
					t.Errorf("Resolve() error = %v, want ErrExpired", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != "http://example.com" {
				t.Errorf("Resolve() = %q, want %q", got, "http://example.com")
			}
		})
	}
}

func TestExpiredKeywordStaysTaken(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	created := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return created }

	if _, err := r.Create(ctx, "go", "http://example.com", "alice"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Even once the link is dead its keyword is never reclaimed
	r.now = func() time.Time { return created.Add(200 * 24 * time.Hour) }

	if _, err := r.Create(ctx, "go", "http://fresh.example", "bob"); !errors.Is(err, store.ErrKeywordTaken) {
		t.Errorf("Create() on expired keyword error = %v, want ErrKeywordTaken", err)
	}
}

func TestListForOwner(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	clock := base
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for _, c := range []struct{ keyword, url, owner string }{
		{"one", "example.com/1", "alice"},
		{"two", "example.com/2", "bob"},
		{"three", "example.com/3", "alice"},
	} {
		if _, err := r.Create(ctx, c.keyword, c.url, c.owner); err != nil {
			t.Fatalf("Create(%q) error = %v", c.keyword, err)
		}
	}

	links, err := r.ListForOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListForOwner() error = %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("ListForOwner() returned %d links, want 2", len(links))
	}
	if links[0].Keyword != "one" || links[1].Keyword != "three" {
		t.Errorf("ListForOwner() order = [%s, %s], want [one, three]", links[0].Keyword, links[1].Keyword)
	}

	none, err := r.ListForOwner(ctx, "carol")
	if err != nil {
		t.Fatalf("ListForOwner() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListForOwner() for unknown owner returned %d links, want 0", len(none))
	}
}
