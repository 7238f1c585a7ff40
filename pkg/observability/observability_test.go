package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg, "bot")
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	hooks.OnTurn(ctx, &domain.TurnEvent{
		EventBase: domain.EventBase{Conversation: 1},
		Command:   "*demo.Echo",
		Outcome:   domain.OutcomeStatic,
		Duration:  time.Millisecond,
		Pending:   2,
	})
	hooks.OnTurn(ctx, &domain.TurnEvent{Outcome: domain.OutcomeDropped})
	hooks.OnSendError(ctx, &domain.SendEvent{Kind: domain.MessageText, Err: errors.New("x")})
	m.SetConversations(3)

	expected := `
# HELP bot_updates_total Updates processed, by outcome.
# TYPE bot_updates_total counter
bot_updates_total{outcome="dropped"} 1
bot_updates_total{outcome="static"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "bot_updates_total"))
	n, err := testutil.GatherAndCount(reg, "bot_command_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	expected = `
# HELP bot_send_errors_total Output messages the transport failed to deliver, by kind.
# TYPE bot_send_errors_total counter
bot_send_errors_total{kind="text"} 1
# HELP bot_pending_continuations Continuations pending after the last turn of the observed conversation.
# TYPE bot_pending_continuations gauge
bot_pending_continuations 2
# HELP bot_conversations Conversations held in memory.
# TYPE bot_conversations gauge
bot_conversations 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected),
		"bot_send_errors_total", "bot_pending_continuations", "bot_conversations"))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg, "bot")
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg, "bot")
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{OnTurn: func(context.Context, *domain.TurnEvent) { order = append(order, "a") }}
	b := domain.LifecycleHooks{
		OnTurn:   func(context.Context, *domain.TurnEvent) { order = append(order, "b") },
		OnSelect: func(context.Context, *domain.TurnEvent) { order = append(order, "select") },
	}

	h := observability.Chain(a, domain.LifecycleHooks{}, b)
	h.OnSelect(context.Background(), &domain.TurnEvent{})
	h.OnTurn(context.Background(), &domain.TurnEvent{})

	assert.Equal(t, []string{"select", "a", "b"}, order)
	assert.Nil(t, h.OnSendError)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := observability.LogHooks(logger)

	h.OnTurn(context.Background(), &domain.TurnEvent{
		EventBase: domain.EventBase{TurnID: "t-1"},
		Command:   "*demo.Echo",
		Outcome:   domain.OutcomeFailed,
		Err:       errors.New("boom"),
	})

	out := buf.String()
	assert.Contains(t, out, "turn_failed")
	assert.Contains(t, out, "turn_id=t-1")
	assert.Contains(t, out, "err=boom")
}
