// Package cache keeps read-mostly story graph content in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

var lookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "novel_graph_cache_lookups_total",
		Help: "Graph cache lookups by kind and result.",
	},
	[]string{"kind", "result"},
)

const (
	kindChoices = "choices"
	kindContent = "content"
)

var _ interfaces.GraphCache = (*redisGraphCache)(nil)

type redisGraphCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisGraphCache creates a Redis-backed graph cache. Entries expire after ttl.
func NewRedisGraphCache(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) interfaces.GraphCache {
	return &redisGraphCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisGraphCache"),
	}
}

func choicesKey(nodeID int64) string { return fmt.Sprintf("graph:node:%d:choices", nodeID) }

func contentKey(nodeID int64) string { return fmt.Sprintf("graph:node:%d:content", nodeID) }

func (c *redisGraphCache) GetChoices(ctx context.Context, nodeID int64) ([]models.Choice, bool, error) {
	var choices []models.Choice
	ok, err := c.get(ctx, kindChoices, choicesKey(nodeID), &choices)
	if err != nil || !ok {
		return nil, ok, err
	}
	if choices == nil {
		choices = []models.Choice{}
	}
	return choices, true, nil
}

func (c *redisGraphCache) SetChoices(ctx context.Context, nodeID int64, choices []models.Choice) error {
	return c.set(ctx, choicesKey(nodeID), choices)
}

func (c *redisGraphCache) GetNodeContent(ctx context.Context, nodeID int64) (*models.NodeContent, bool, error) {
	var content models.NodeContent
	ok, err := c.get(ctx, kindContent, contentKey(nodeID), &content)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &content, true, nil
}

func (c *redisGraphCache) SetNodeContent(ctx context.Context, content *models.NodeContent) error {
	return c.set(ctx, contentKey(content.Node.ID), content)
}

func (c *redisGraphCache) InvalidateNodes(ctx context.Context, nodeIDs ...int64) error {
	if len(nodeIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(nodeIDs)*2)
	for _, id := range nodeIDs {
		keys = append(keys, choicesKey(id), contentKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("Failed to invalidate graph cache", zap.Int64s("nodeIDs", nodeIDs), zap.Error(err))
		return fmt.Errorf("invalidate graph cache: %w", err)
	}
	c.logger.Debug("Graph cache invalidated", zap.Int64s("nodeIDs", nodeIDs))
	return nil
}

func (c *redisGraphCache) get(ctx context.Context, kind, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			lookupsTotal.WithLabelValues(kind, "miss").Inc()
			return false, nil
		}
		lookupsTotal.WithLabelValues(kind, "error").Inc()
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A corrupt entry is dropped and treated as a miss.
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		lookupsTotal.WithLabelValues(kind, "miss").Inc()
		return false, nil
	}
	lookupsTotal.WithLabelValues(kind, "hit").Inc()
	return true, nil
}

func (c *redisGraphCache) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
