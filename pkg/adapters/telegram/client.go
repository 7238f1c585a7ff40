package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/logging"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the subset of *tgbotapi.BotAPI the Client relies on.
type API interface {
	GetMe() (tgbotapi.User, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Client implements ports.Transport over the Telegram Bot API.
type Client struct {
	api         API
	logger      *slog.Logger
	pollTimeout int
	allowed     []string

	endpoint   string
	httpClient *http.Client

	start   sync.Once
	stop    sync.Once
	updates tgbotapi.UpdatesChannel
}

// Option configures the Client.
type Option func(*Client)

// WithLogger configures a logger for the Client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPollTimeout sets the long polling timeout in seconds.
func WithPollTimeout(seconds int) Option {
	return func(c *Client) {
		c.pollTimeout = seconds
	}
}

// WithAllowedUpdates restricts the update kinds Telegram delivers.
func WithAllowedUpdates(kinds ...string) Option {
	return func(c *Client) {
		c.allowed = kinds
	}
}

// WithEndpoint overrides the Bot API endpoint, in tgbotapi.APIEndpoint format.
// Only used by New.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient overrides the HTTP client. Only used by New.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New connects to the Bot API with token. It fails when the token is rejected.
func New(token string, opts ...Option) (*Client, error) {
	c := newClient(opts)
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.endpoint == "" {
		c.endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithClient(token, c.endpoint, c.httpClient)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	c.api = api
	return c, nil
}

// NewFromAPI wraps an existing API handle.
func NewFromAPI(api API, opts ...Option) *Client {
	c := newClient(opts)
	c.api = api
	return c
}

func newClient(opts []Option) *Client {
	c := &Client{
		logger:      logging.NewNop(),
		pollTimeout: 60,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NextEvent implements ports.Source. Long polling starts on the first call.
func (c *Client) NextEvent(ctx context.Context) (*domain.Update, error) {
	c.start.Do(func() {
		cfg := tgbotapi.NewUpdate(0)
		cfg.Timeout = c.pollTimeout
		cfg.AllowedUpdates = c.allowed
		c.updates = c.api.GetUpdatesChan(cfg)
		c.logger.Debug("Long polling started", "timeout", c.pollTimeout)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case u, ok := <-c.updates:
		if !ok {
			return nil, domain.ErrTransportClosed
		}
		return FromUpdate(u), nil
	}
}

// Close stops long polling. NextEvent then reports domain.ErrTransportClosed.
func (c *Client) Close() error {
	c.stop.Do(func() {
		c.start.Do(func() {
			ch := make(chan tgbotapi.Update)
			close(ch)
			c.updates = ch
		})
		c.api.StopReceivingUpdates()
	})
	return nil
}

// Send implements ports.Sink.
func (c *Client) Send(ctx context.Context, msg domain.Message) error {
	req, err := Encode(msg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Request(req); err != nil {
		return fmt.Errorf("telegram %s: %w", msg.MessageKind(), err)
	}
	return nil
}

// Identity implements ports.Transport.
func (c *Client) Identity(context.Context) (domain.BotIdentity, error) {
	me, err := c.api.GetMe()
	if err != nil {
		return domain.BotIdentity{}, fmt.Errorf("telegram getMe: %w", err)
	}
	return domain.BotIdentity{ID: me.ID, Username: me.UserName, FirstName: me.FirstName}, nil
}
