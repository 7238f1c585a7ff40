package observability

import (
	"context"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dispatch collectors.
type Metrics struct {
	turns         *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	sendErrors    *prometheus.CounterVec
	pending       prometheus.Gauge
	conversations prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "updates_total",
				Help:      "Updates processed, by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Duration of command executions.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		sendErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "send_errors_total",
				Help:      "Output messages the transport failed to deliver, by kind.",
			},
			[]string{"kind"},
		),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_continuations",
			Help:      "Continuations pending after the last turn of the observed conversation.",
		}),
		conversations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conversations",
			Help:      "Conversations held in memory.",
		}),
	}
	for _, c := range []prometheus.Collector{m.turns, m.duration, m.sendErrors, m.pending, m.conversations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(_ context.Context, e *domain.TurnEvent) {
			m.turns.WithLabelValues(string(e.Outcome)).Inc()
			if e.Command != "" {
				m.duration.WithLabelValues(e.Command).Observe(e.Duration.Seconds())
			}
			if e.Conversation != 0 {
				m.pending.Set(float64(e.Pending))
			}
		},
		OnSendError: func(_ context.Context, e *domain.SendEvent) {
			m.sendErrors.WithLabelValues(string(e.Kind)).Inc()
		},
	}
}

// SetConversations records the size of the conversation registry.
func (m *Metrics) SetConversations(n int) {
	m.conversations.Set(float64(n))
}
