package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"assessment-service/internal/domain"
)

// LeaderboardSource mirrors the app-side interface so the cache can wrap
// any ranking backend.
type LeaderboardSource interface {
	TopAttempts(ctx context.Context, quizID string, limit int) ([]domain.LeaderboardEntry, error)
}

// LeaderboardCache keeps recently computed top-N slices in Redis for a
// short TTL. Leaderboards tolerate slight staleness, and quiz pages hammer
// the same query.
type LeaderboardCache struct {
	client *redis.Client
	source LeaderboardSource
	ttl    time.Duration
	sf     singleflight.Group
}

func NewLeaderboardCache(client *redis.Client, source LeaderboardSource, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, source: source, ttl: ttl}
}

func (c *LeaderboardCache) TopAttempts(ctx context.Context, quizID string, limit int) ([]domain.LeaderboardEntry, error) {
	key := c.key(quizID, limit)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var entries []domain.LeaderboardEntry
		if err := json.Unmarshal(raw, &entries); err == nil {
			return entries, nil
		}
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		entries, err := c.source.TopAttempts(ctx, quizID, limit)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(entries); err == nil {
			// best-effort fill
			_ = c.client.Set(ctx, key, raw, c.ttl).Err()
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.LeaderboardEntry), nil
}

// Invalidate drops every cached slice for a quiz. Called after a submit so
// fresh completions show up without waiting out the TTL.
func (c *LeaderboardCache) Invalidate(ctx context.Context, quizID string) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("quiz:%s:leaderboard:*", quizID), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *LeaderboardCache) key(quizID string, limit int) string {
	return fmt.Sprintf("quiz:%s:leaderboard:%d", quizID, limit)
}
