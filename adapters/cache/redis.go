package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"surveygen/domain/core"
	"surveygen/internal"
	"surveygen/ports"
)

// ErrMiss is returned by a Store when the key holds no entry.
var ErrMiss = errors.New("cache miss")

// Store keeps serialized responses by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a go-redis client as a Store
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return data, err
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// CachedProvider serves repeated identical requests from a Store. Only
// successful non-empty responses are stored; requests with an image are never
// cached. Store failures are logged and the call goes to the provider.
type CachedProvider struct {
	next   ports.ModelProvider
	store  Store
	ttl    time.Duration
	logger *internal.Logger
}

// NewCachedProvider decorates next with a response cache.
func NewCachedProvider(next ports.ModelProvider, store Store, ttl time.Duration, logger *internal.Logger) *CachedProvider {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CachedProvider{next: next, store: store, ttl: ttl, logger: logger.With("Cache")}
}

type entry struct {
	Content string           `json:"content"`
	Model   string           `json:"model"`
	Usage   *ports.UsageData `json:"usage,omitempty"`
}

// Key returns the cache key for req.
func Key(req ports.ModelRequest) string {
	opts := map[string]string{
		"system":      req.System,
		"temperature": strconv.FormatFloat(req.Options.Temperature, 'f', -1, 64),
		"max_tokens":  strconv.Itoa(req.Options.MaxOutputTokens),
		"json":        strconv.FormatBool(req.Options.JSON),
		"reasoning":   req.Options.ReasoningEffort,
		"verbosity":   req.Options.Verbosity,
	}
	return "surveygen:llm:" + core.ComputePromptHash(req.Model, string(req.Task), opts, req.Prompt).String()
}

func (p *CachedProvider) Invoke(ctx context.Context, req ports.ModelRequest) (*ports.LLMResponse, error) {
	if req.Image != nil {
		return p.next.Invoke(ctx, req)
	}

	key := Key(req)
	if data, err := p.store.Get(ctx, key); err == nil {
		var e entry
		if err := json.Unmarshal(data, &e); err == nil && e.Content != "" {
			p.logger.Debug("hit %s task=%s", core.Hash(key[len("surveygen:llm:"):]).Short(), req.Task)
			return &ports.LLMResponse{Content: e.Content, Model: e.Model, Usage: e.Usage, Cached: true}, nil
		}
	} else if !errors.Is(err, ErrMiss) {
		p.logger.Warn("cache read failed, bypassing: %v", err)
	}

	resp, err := p.next.Invoke(ctx, req)
	if err != nil || resp == nil || resp.Content == "" {
		return resp, err
	}

	data, err := json.Marshal(entry{Content: resp.Content, Model: resp.Model, Usage: resp.Usage})
	if err == nil {
		err = p.store.Set(ctx, key, data, p.ttl)
	}
	if err != nil {
		p.logger.Warn("cache write failed: %v", err)
	}
	return resp, nil
}

// ListModels delegates to the wrapped provider when it can list models.
func (p *CachedProvider) ListModels(ctx context.Context) ([]string, error) {
	if lister, ok := p.next.(ports.ModelLister); ok {
		return lister.ListModels(ctx)
	}
	return nil, fmt.Errorf("provider cannot list models")
}
