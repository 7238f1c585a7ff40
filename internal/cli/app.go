// Package cli holds the logic behind the botcore command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	botcore "github.com/AskoldMakaruk/TelegramBotCore"
	"github.com/AskoldMakaruk/TelegramBotCore/internal/config"
	"github.com/AskoldMakaruk/TelegramBotCore/internal/demo"
	"github.com/AskoldMakaruk/TelegramBotCore/internal/logging"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/adapters/memory"
	redisAdapter "github.com/AskoldMakaruk/TelegramBotCore/pkg/adapters/redis"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/ports"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
	"github.com/redis/go-redis/v9"
)

// ErrNoToken is returned when a mode needing the platform runs without a token.
var ErrNoToken = errors.New("bot token is required (--token or BOTCORE_TOKEN)")

// NewLogger configures the application logger from cfg. Logs go to stderr so
// they never mix with command output.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []logging.Option{logging.WithOutput(os.Stderr)}
	if cfg.LogFormat == "json" {
		opts = append(opts, logging.WithJSON())
	}
	return logging.New(level, opts...), nil
}

// NewCatalog registers the bundled command set.
// Structural problems are reported by Seal, not here.
func NewCatalog() (*resolve.Catalog, error) {
	cat := resolve.NewCatalog()
	if err := demo.Register(cat); err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}
	return cat, nil
}

// coordination picks the locker and deduplicator: Redis when configured,
// in-process otherwise. The returned closer releases the Redis client.
func coordination(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]botcore.Option, io.Closer, error) {
	if cfg.RedisAddr == "" {
		return []botcore.Option{
			botcore.WithDeduplicator(memory.NewDeduplicator(memory.DefaultDedupWindow)),
		}, nopCloser{}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("Using Redis coordination", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)

	var locker ports.DistributedLocker = redisAdapter.NewLocker(client, cfg.RedisPrefix)
	var dedup ports.Deduplicator = redisAdapter.NewDeduplicator(client, cfg.RedisPrefix, redisAdapter.WithDedupTTL(cfg.DedupTTL))
	return []botcore.Option{
		botcore.WithLocker(locker, cfg.LockTTL),
		botcore.WithDeduplicator(dedup),
	}, client, nil
}

// newBot assembles a Bot over source and sink with the options implied by cfg.
func newBot(ctx context.Context, cfg config.Config, logger *slog.Logger, source ports.Source, sink ports.Sink, hooks domain.LifecycleHooks, extra ...botcore.Option) (*botcore.Bot, io.Closer, error) {
	cat, err := NewCatalog()
	if err != nil {
		return nil, nil, err
	}

	coord, closer, err := coordination(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []botcore.Option{
		botcore.WithLogger(logger),
		botcore.WithLifecycleHooks(hooks),
		botcore.WithWorkers(cfg.Workers),
		botcore.WithIdleTimeout(cfg.IdleTimeout, cfg.SweepInterval),
	}
	if cfg.Interpreted {
		opts = append(opts, botcore.WithInterpretedResolution())
	}
	opts = append(opts, coord...)
	opts = append(opts, extra...)

	bot, err := botcore.New(cat, source, sink, opts...)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return bot, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
