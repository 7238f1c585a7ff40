package cli

import (
	"context"
	"fmt"
	"io"

	botcore "github.com/AskoldMakaruk/TelegramBotCore"
	"github.com/AskoldMakaruk/TelegramBotCore/internal/config"
	"github.com/AskoldMakaruk/TelegramBotCore/internal/presentation/tui"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/adapters/telegram"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/observability"
)

// RunPolling runs the bot over Telegram long polling until ctx is done.
func RunPolling(ctx context.Context, cfg config.Config, out io.Writer) error {
	if cfg.Token == "" {
		return ErrNoToken
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}

	tg, err := telegram.New(cfg.Token,
		telegram.WithLogger(logger),
		telegram.WithPollTimeout(cfg.PollTimeout),
		telegram.WithEndpoint(cfg.APIEndpoint),
	)
	if err != nil {
		return fmt.Errorf("connect to telegram: %w", err)
	}
	defer tg.Close()

	bot, closer, err := newBot(ctx, cfg, logger, tg, tg, observability.LogHooks(logger))
	if err != nil {
		return err
	}
	defer closer.Close()

	return runBot(ctx, bot, out, "polling")
}

// runBot prints the banner once the account is known and runs the loop.
func runBot(ctx context.Context, bot *botcore.Bot, out io.Writer, mode string) error {
	id, err := bot.Identify(ctx)
	if err != nil {
		return fmt.Errorf("identify bot: %w", err)
	}
	if out != nil {
		tui.PrintBanner(out, id, mode)
	}
	return bot.Run(ctx)
}
