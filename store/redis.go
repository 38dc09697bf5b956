package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"keyword-shortener/config"
	"keyword-shortener/model"
)

const (
	linksKey    = "links"    // hash: keyword -> LinkRecord JSON
	usersKey    = "users"    // hash: username -> password hash
	messagesKey = "messages" // hash: message ID -> ContactMessage JSON
)

// RedisStore persists the mappings as Redis hashes. HSetNX gives the
// insert-if-absent semantics the flat-file backend gets from its mutex.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	log.Info().Str("address", cfg.Address).Msg("Connected to Redis")
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) PutLink(ctx context.Context, link model.LinkRecord) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("marshalling link: %w", err)
	}

	set, err := s.client.HSetNX(ctx, linksKey, link.Keyword, data).Result()
	if err != nil {
		return err
	}
	if !set {
		return ErrKeywordTaken
	}
	return nil
}

func (s *RedisStore) GetLink(ctx context.Context, keyword string) (model.LinkRecord, error) {
	data, err := s.client.HGet(ctx, linksKey, keyword).Bytes()
	if err == redis.Nil {
		return model.LinkRecord{}, ErrNotFound
	} else if err != nil {
		return model.LinkRecord{}, err
	}

	var link model.LinkRecord
	if err := json.Unmarshal(data, &link); err != nil {
		return model.LinkRecord{}, fmt.Errorf("unmarshalling link %q: %w", keyword, err)
	}
	link.Keyword = keyword
	return link, nil
}

func (s *RedisStore) LinksByOwner(ctx context.Context, owner string) ([]model.LinkRecord, error) {
	entries, err := s.client.HGetAll(ctx, linksKey).Result()
	if err != nil {
		return nil, err
	}

	links := make([]model.LinkRecord, 0)
	for keyword, data := range entries {
		var link model.LinkRecord
		if err := json.Unmarshal([]byte(data), &link); err != nil {
			return nil, fmt.Errorf("unmarshalling link %q: %w", keyword, err)
		}
		if link.Owner != owner {
			continue
		}
		link.Keyword = keyword
		links = append(links, link)
	}
	sortLinks(links)
	return links, nil
}

func (s *RedisStore) PutUser(ctx context.Context, username, passwordHash string) error {
	set, err := s.client.HSetNX(ctx, usersKey, username, passwordHash).Result()
	if err != nil {
		return err
	}
	if !set {
		return ErrUsernameTaken
	}
	return nil
}

func (s *RedisStore) GetUser(ctx context.Context, username string) (string, error) {
	hash, err := s.client.HGet(ctx, usersKey, username).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return hash, nil
}

func (s *RedisStore) PutMessage(ctx context.Context, msg model.ContactMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshalling message: %w", err)
	}
	return s.client.HSet(ctx, messagesKey, msg.ID, data).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
