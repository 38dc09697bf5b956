package store

import (
	"context"
	"errors"

	"keyword-shortener/model"
)

var (
	ErrKeywordTaken  = errors.New("keyword already taken")
	ErrUsernameTaken = errors.New("username already taken")
	ErrNotFound      = errors.New("not found")
)

// LinkStore holds the keyword -> LinkRecord mapping.
type LinkStore interface {
	// PutLink inserts a record if and only if its keyword is absent.
	// Expired records still occupy the key; it is never reclaimed.
	PutLink(ctx context.Context, link model.LinkRecord) error
	GetLink(ctx context.Context, keyword string) (model.LinkRecord, error)
	// LinksByOwner returns all records created by owner, in creation order.
	LinksByOwner(ctx context.Context, owner string) ([]model.LinkRecord, error)
}

// UserStore holds the username -> password-hash mapping.
type UserStore interface {
	PutUser(ctx context.Context, username, passwordHash string) error
	GetUser(ctx context.Context, username string) (string, error)
}

// MessageStore holds submitted contact-form messages.
type MessageStore interface {
	PutMessage(ctx context.Context, msg model.ContactMessage) error
}

// Store is the full persistence surface shared by all backends.
type Store interface {
	LinkStore
	UserStore
	MessageStore
	Close() error
}
