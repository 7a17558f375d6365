package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/develop-ac/compras-backend/internal/config"
	"github.com/develop-ac/compras-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	sugestaoKeyPrefix    = "compras:sugestoes"
	sugestaoScanBatchLen = 100
)

// SugestaoCache caches the snapshot query result per historical window so
// repeated parameter tweaks in the workbench do not re-run the aggregation.
type SugestaoCache interface {
	Get(ctx context.Context, periodDays int) ([]domain.Sugestao, bool, error)
	Set(ctx context.Context, periodDays int, sugestoes []domain.Sugestao) error
	InvalidateAll(ctx context.Context) error
}

type redisSugestaoCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSugestaoCache struct{}

func NewSugestaoCache(cfg config.CacheConfig) (SugestaoCache, error) {
	if !cfg.Enabled {
		return &noopSugestaoCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSugestaoCache{client: client, ttl: ttl}, nil
}

func NewNoopSugestaoCache() SugestaoCache {
	return &noopSugestaoCache{}
}

func buildSugestaoKey(periodDays int) string {
	return fmt.Sprintf("%s:period=%d", sugestaoKeyPrefix, periodDays)
}

func (c *redisSugestaoCache) Get(ctx context.Context, periodDays int) ([]domain.Sugestao, bool, error) {
	payload, err := c.client.Get(ctx, buildSugestaoKey(periodDays)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var sugestoes []domain.Sugestao
	if err := json.Unmarshal(payload, &sugestoes); err != nil {
		return nil, false, fmt.Errorf("decode suggestion cache: %w", err)
	}
	return sugestoes, true, nil
}

func (c *redisSugestaoCache) Set(ctx context.Context, periodDays int, sugestoes []domain.Sugestao) error {
	payload, err := json.Marshal(sugestoes)
	if err != nil {
		return fmt.Errorf("encode suggestion cache: %w", err)
	}
	if err := c.client.Set(ctx, buildSugestaoKey(periodDays), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSugestaoCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, sugestaoKeyPrefix, sugestaoScanBatchLen)
}

func (n *noopSugestaoCache) Get(ctx context.Context, periodDays int) ([]domain.Sugestao, bool, error) {
	return nil, false, nil
}

func (n *noopSugestaoCache) Set(ctx context.Context, periodDays int, sugestoes []domain.Sugestao) error {
	return nil
}

func (n *noopSugestaoCache) InvalidateAll(ctx context.Context) error {
	return nil
}
