package shortener

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"keyword-shortener/model"
	"keyword-shortener/store"
)

// LinkTTL is how long a new link honors redirects before it goes dead.
const LinkTTL = 120 * 24 * time.Hour

var (
	ErrEmptyKeyword = errors.New("keyword cannot be empty")
	ErrEmptyURL     = errors.New("URL cannot be empty")
	ErrExpired      = errors.New("link has expired")
)

// Registry creates, looks up, and expires short-link records. Keyword
// comparison is exact and case-sensitive; a keyword is never reclaimed,
// so an expired record still counts as taken.
type Registry struct {
	links store.LinkStore
	now   func() time.Time
	ttl   time.Duration
}

func NewRegistry(links store.LinkStore) *Registry {
	return &Registry{
		links: links,
		now:   time.Now,
		ttl:   LinkTTL,
	}
}

// NormalizeURL prepends "http://" when the URL carries no http or https
// scheme. Normalizing an already-prefixed URL returns it unchanged.
func NormalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "http://" + raw
}

// Create registers a new keyword for owner. It fails with
// store.ErrKeywordTaken when the keyword already exists, leaving the
// original record untouched.
func (r *Registry) Create(ctx context.Context, keyword, rawURL, owner string) (model.LinkRecord, error) {
	keyword = strings.TrimSpace(keyword)
	rawURL = strings.TrimSpace(rawURL)

	if keyword == "" {
		return model.LinkRecord{}, ErrEmptyKeyword
	}
	if rawURL == "" {
		return model.LinkRecord{}, ErrEmptyURL
	}

	now := r.now()
	link := model.LinkRecord{
		Keyword:        keyword,
		OriginalURL:    NormalizeURL(rawURL),
		ExpirationDate: now.Add(r.ttl),
		Owner:          owner,
		CreatedAt:      now,
	}

	if err := r.links.PutLink(ctx, link); err != nil {
		return model.LinkRecord{}, err
	}

	log.Info().
		Str("keyword", keyword).
		Str("original_url", link.OriginalURL).
		Str("owner", owner).
		Time("expiration_date", link.ExpirationDate).
		Msg("Short link created")

	return link, nil
}

// Resolve returns the original URL behind keyword. It fails with
// store.ErrNotFound for an unknown keyword and ErrExpired once the current
// time has reached the record's expiration date.
func (r *Registry) Resolve(ctx context.Context, keyword string) (string, error) {
	link, err := r.links.GetLink(ctx, keyword)
	if err != nil {
		return "", err
	}
	if link.Expired(r.now()) {
		return "", ErrExpired
	}
	return link.OriginalURL, nil
}

// ListForOwner returns all records created by owner, expired ones included.
func (r *Registry) ListForOwner(ctx context.Context, owner string) ([]model.LinkRecord, error) {
	return r.links.LinksByOwner(ctx, owner)
}
