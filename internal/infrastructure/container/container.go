package container

import (
	"context"
	"fmt"

	"github.com/gdugdh24/devmatch-backend/internal/config"
	"github.com/gdugdh24/devmatch-backend/internal/delivery/http"
	"github.com/gdugdh24/devmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/infrastructure/database"
	"github.com/gdugdh24/devmatch-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/devmatch-backend/internal/infrastructure/server"
	"github.com/gdugdh24/devmatch-backend/internal/repository"
	"github.com/gdugdh24/devmatch-backend/internal/repository/memory"
	"github.com/gdugdh24/devmatch-backend/internal/repository/postgres"
	redisrepo "github.com/gdugdh24/devmatch-backend/internal/repository/redis"
	"github.com/gdugdh24/devmatch-backend/internal/usecase/batch"
	"github.com/gdugdh24/devmatch-backend/internal/usecase/match"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *sqlx.DB
	Redis   *redis.Client
	Metrics *metrics.BatchMetrics

	Runner       *batch.Runner
	MatchUseCase *match.MatchUseCase
	Server       *server.Server
}

// NewContainer wires storage, use cases and the HTTP server. ctx bounds
// background batch runs started over HTTP.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	profileRepo, matchRepo, err := c.initStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	checkpointRepo, err := c.initCheckpoints(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Runner = batch.NewRunner(
		profileRepo,
		matchRepo,
		logger,
		batch.Options{
			Workers:         cfg.Matcher.Workers,
			CheckpointEvery: cfg.Matcher.CheckpointEvery,
			StoreRPS:        cfg.Matcher.StoreRPS,
			StoreBurst:      cfg.Matcher.StoreBurst,
			Resume:          cfg.Matcher.Resume,
		},
		batch.WithCheckpoints(checkpointRepo),
		batch.WithObserver(c.Metrics),
	)

	c.MatchUseCase = match.NewMatchUseCase(matchRepo, profileRepo, c.onConnected, logger)

	router := http.NewRouter(
		handler.NewMatchHandler(c.MatchUseCase),
		handler.NewBatchHandler(ctx, c.Runner, logger),
		c.Metrics.Handler(),
		logger.Named("http"),
	)
	c.Server = server.NewServer(&cfg.Server, router.Setup(), logger)

	return c, nil
}

func (c *Container) initStore(ctx context.Context) (repository.ProfileRepository, repository.MatchRepository, error) {
	switch c.Config.Matcher.Store {
	case config.StoreMemory:
		profiles, err := memory.LoadProfiles(c.Config.Matcher.ProfilesFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load profiles: %w", err)
		}
		c.Logger.Info("using in-memory match store", zap.Int("profiles", len(profiles)))
		return memory.NewProfileRepository(profiles), memory.NewMatchRepository(), nil

	default:
		db, err := database.NewPostgresDB(ctx, &c.Config.Database, c.Config.Matcher.Workers, c.Logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		return postgres.NewProfileRepository(db), postgres.NewMatchRepository(db), nil
	}
}

func (c *Container) initCheckpoints(ctx context.Context) (repository.CheckpointRepository, error) {
	if !c.Config.UsesRedis() {
		return memory.NewCheckpointRepository(), nil
	}

	client, err := database.NewRedisClient(ctx, &c.Config.Redis, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	c.Redis = client
	return redisrepo.NewCheckpointRepository(client, c.Config.Matcher.CheckpointKey, c.Config.Matcher.CheckpointTTL), nil
}

// onConnected is the eligibility hook. Notification delivery lives outside
// this service, so the event is only logged.
func (c *Container) onConnected(_ context.Context, key domain.PairKey, score int) {
	c.Logger.Info("match eligibility changed", zap.String("pair", key.String()), zap.Int("score", score))
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", zap.Error(err))
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
