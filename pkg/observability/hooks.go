package observability

import (
	"context"
	"log/slog"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
)

// Chain merges hooks so that every callback runs, in argument order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnSelect = chain(out.OnSelect, h.OnSelect)
		out.OnTurn = chain(out.OnTurn, h.OnTurn)
		out.OnSendError = chain(out.OnSendError, h.OnSendError)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LogHooks logs every turn and delivery failure.
// Dropped updates are logged at debug level, failures at error level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSelect: func(ctx context.Context, e *domain.TurnEvent) {
			logger.DebugContext(ctx, "command_selected",
				"turn_id", e.TurnID,
				"conversation", e.Conversation,
				"command", e.Command,
				"outcome", e.Outcome,
			)
		},
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			attrs := []any{
				"turn_id", e.TurnID,
				"update_id", e.UpdateID,
				"conversation", e.Conversation,
				"outcome", e.Outcome,
			}
			switch e.Outcome {
			case domain.OutcomeFailed:
				logger.ErrorContext(ctx, "turn_failed", append(attrs, "command", e.Command, "err", e.Err)...)
			case domain.OutcomeDropped, domain.OutcomeDuplicate:
				logger.DebugContext(ctx, "turn_skipped", attrs...)
			default:
				logger.InfoContext(ctx, "turn_completed", append(attrs,
					"command", e.Command,
					"duration", e.Duration,
					"pending", e.Pending,
				)...)
			}
		},
		OnSendError: func(ctx context.Context, e *domain.SendEvent) {
			logger.WarnContext(ctx, "send_failed",
				"turn_id", e.TurnID,
				"conversation", e.Conversation,
				"kind", e.Kind,
				"err", e.Err,
			)
		},
	}
}
