package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"assessment-service/internal/app"
	"assessment-service/internal/config"
	"assessment-service/internal/infra/memory"
	infrapg "assessment-service/internal/infra/postgres"
	infraredis "assessment-service/internal/infra/redis"
)

// services bundles the wired application services plus a teardown for the
// connections behind them.
type services struct {
	authoring   *app.AuthoringService
	attempts    *app.AttemptService
	leaderboard *app.LeaderboardService
	close       func()
}

// buildServices assembles the service stack from config: bun for writes, a
// pgx pool for the read paths, and redis-backed caches when redis is
// configured, in-process ones otherwise.
func buildServices(ctx context.Context, cfg config.Config) (*services, error) {
	db := openBunDB(cfg.Postgres.URL)
	store := infrapg.NewStore(db)

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	quizzes := newQuizReader(redisClient, infrapg.NewQuizLoader(pool), quizTTL)

	boardTTL := config.TTLDuration(cfg.Leaderboard.TTL, 30*time.Second)
	source := newLeaderboardSource(redisClient, infrapg.NewLeaderboardSource(pool), boardTTL)

	return &services{
		authoring:   app.NewAuthoringService(store),
		attempts:    app.NewAttemptService(store, quizzes, store),
		leaderboard: app.NewLeaderboardService(source),
		close: func() {
			if redisClient != nil {
				_ = redisClient.Close()
			}
			pool.Close()
			_ = db.Close()
		},
	}, nil
}

// newQuizReader picks the quiz cache in front of the loader: redis when a
// client is configured, an in-process TTL cache otherwise.
func newQuizReader(client *redis.Client, loader memory.QuizLoader, ttl time.Duration) app.QuizReader {
	if client != nil {
		return infraredis.NewQuizCache(client, loader, ttl)
	}
	return memory.NewQuizCache(loader, ttl)
}

// newLeaderboardSource wraps the ranking backend in a short-TTL redis cache
// when a client is configured; without one the backend serves directly.
func newLeaderboardSource(client *redis.Client, source app.LeaderboardSource, ttl time.Duration) app.LeaderboardSource {
	if client != nil {
		return infraredis.NewLeaderboardCache(client, source, ttl)
	}
	return source
}
