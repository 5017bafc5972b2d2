package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/bichocore/settler/internal/blob/s3"
	"github.com/bichocore/settler/internal/cache/redis"
	"github.com/bichocore/settler/internal/config"
	"github.com/bichocore/settler/internal/crypto"
	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/notify"
	"github.com/bichocore/settler/internal/results"
	"github.com/bichocore/settler/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	// Stores
	Wagers      domain.WagerStore
	Users       domain.UserStore
	Ledger      domain.LedgerStore
	Schedules   domain.ScheduleStore
	Settlements domain.SettlementStore

	// Redis-backed extras; nil when Redis is disabled.
	ResultCache domain.ResultCache
	RateLimiter domain.RateLimiter
	Locks       domain.LockManager

	// Snapshot archiving; nil when S3 is disabled.
	Archiver domain.SnapshotArchiver

	// Official results pipeline.
	Results    *results.Service
	Aggregator *results.AggregatorClient

	// External callback signing; nil when no secret is configured.
	CallbackAuth *crypto.CallbackAuth

	// Notifications
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	deps.Wagers = postgres.NewWagerStore(pool)
	deps.Users = postgres.NewUserStore(pool)
	deps.Ledger = postgres.NewLedgerStore(pool)
	deps.Schedules = postgres.NewScheduleStore(pool)
	deps.Settlements = postgres.NewSettlementStore(pool)

	// --- Redis (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.ResultCache = redis.NewResultCache(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
		deps.Locks = redis.NewLockManager(redisClient)
	}

	// --- S3 snapshot archiving (optional) ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.Archiver = s3blob.NewSnapshotArchiver(s3blob.NewWriter(s3Client))
	}

	// --- Official results pipeline ---
	fetcher := results.NewClient(cfg.Results.BaseURL, cfg.Results.SessionToken)
	deps.Results = results.NewService(fetcher, deps.ResultCache, deps.Archiver, logger)
	if cfg.Results.AggregatorURL != "" {
		deps.Aggregator = results.NewAggregatorClient(cfg.Results.AggregatorURL)
	}

	// --- Callback authentication ---
	secret, err := crypto.LoadSecret(crypto.SecretConfig{
		RawSecret:           cfg.Settlement.CallbackSecret,
		EncryptedSecretPath: cfg.Settlement.CallbackSecretFile,
		Password:            cfg.Settlement.CallbackSecretPassword,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: callback secret: %w", err)
	}
	if secret != "" {
		deps.CallbackAuth = crypto.NewCallbackAuth(secret)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
