package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	botcore "github.com/AskoldMakaruk/TelegramBotCore"
	"github.com/AskoldMakaruk/TelegramBotCore/internal/config"
	"github.com/AskoldMakaruk/TelegramBotCore/internal/presentation/tui"
	httpAdapter "github.com/AskoldMakaruk/TelegramBotCore/pkg/adapters/http"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/adapters/telegram"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long in-flight webhook requests may take once
// shutdown starts.
const ShutdownTimeout = 5 * time.Second

// Serve runs the bot behind a webhook, exposing health and metrics endpoints
// on cfg.Listen, until ctx is done.
func Serve(ctx context.Context, cfg config.Config, out io.Writer) error {
	if cfg.Token == "" {
		return ErrNoToken
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}

	tg, err := telegram.New(cfg.Token,
		telegram.WithLogger(logger),
		telegram.WithEndpoint(cfg.APIEndpoint),
	)
	if err != nil {
		return fmt.Errorf("connect to telegram: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg, "botcore")
	if err != nil {
		return err
	}

	webhook := httpAdapter.NewWebhook(
		httpAdapter.WithSecret(cfg.WebhookSecret),
		httpAdapter.WithLogger(logger),
	)
	hooks := observability.Chain(observability.LogHooks(logger), metrics.Hooks())
	bot, closer, err := newBot(ctx, cfg, logger, webhook, tg, hooks,
		botcore.WithConversationGauge(metrics.SetConversations),
	)
	if err != nil {
		return err
	}
	defer closer.Close()

	id, err := bot.Identify(ctx)
	if err != nil {
		return fmt.Errorf("identify bot: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: httpAdapter.NewRouter(webhook,
			httpAdapter.WithWebhookPath(cfg.WebhookPath),
			httpAdapter.WithMetrics(reg),
			httpAdapter.WithInfo(id, botcore.Version),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening", "addr", srv.Addr, "webhook", cfg.WebhookPath)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			_ = srv.Close()
		}
		// No more requests: let the runner drain what was queued.
		return webhook.Close()
	})
	if out != nil {
		tui.PrintBanner(out, id, "webhook")
	}
	g.Go(func() error {
		return bot.Run(context.WithoutCancel(gctx))
	})
	return g.Wait()
}
