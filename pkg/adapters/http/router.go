package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultWebhookPath is where Telegram posts updates unless configured otherwise.
const DefaultWebhookPath = "/webhook"

type routerConfig struct {
	webhookPath string
	gatherer    prometheus.Gatherer
	identity    *domain.BotIdentity
	version     string
}

// RouterOption configures NewRouter.
type RouterOption func(*routerConfig)

// WithWebhookPath mounts the webhook at path.
func WithWebhookPath(path string) RouterOption {
	return func(c *routerConfig) {
		if path != "" {
			c.webhookPath = path
		}
	}
}

// WithMetrics serves the given gatherer on /metrics.
func WithMetrics(g prometheus.Gatherer) RouterOption {
	return func(c *routerConfig) {
		c.gatherer = g
	}
}

// WithInfo reports the bot identity and build version on /info.
func WithInfo(id domain.BotIdentity, version string) RouterOption {
	return func(c *routerConfig) {
		c.identity = &id
		c.version = version
	}
}

// NewRouter creates the HTTP handler of a webhook deployment.
// A nil webhook serves only the operational endpoints.
func NewRouter(webhook *Webhook, opts ...RouterOption) http.Handler {
	cfg := routerConfig{webhookPath: DefaultWebhookPath}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	if cfg.identity != nil {
		r.Get("/info", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{
				"app":     "botcore",
				"version": cfg.version,
				"bot":     cfg.identity,
			})
		})
	}

	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	if webhook != nil {
		r.Post(cfg.webhookPath, webhook.ServeHTTP)
	}
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}
