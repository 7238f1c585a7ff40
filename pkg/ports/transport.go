package ports

import (
	"context"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
)

// Source produces inbound updates.
type Source interface {
	// NextEvent blocks until an update is available or ctx is done.
	// It returns domain.ErrTransportClosed once no more updates will arrive.
	NextEvent(ctx context.Context) (*domain.Update, error)
}

// Sink delivers output messages.
type Sink interface {
	// Send delivers one message. Failures are reported, never retried by the core.
	Send(ctx context.Context, msg domain.Message) error
}

// Transport is a full duplex connection to the chat platform.
type Transport interface {
	Source
	Sink
	// Identity returns the bot account the transport is connected as.
	Identity(ctx context.Context) (domain.BotIdentity, error)
}
