package resolve_test

import (
	"context"
	"strings"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
)

// HelloMessage is an update whose text is exactly "hello".
type HelloMessage struct{ *domain.Update }

func validateHello(u *domain.Update) (HelloMessage, bool) {
	return HelloMessage{u}, u.Text == "hello"
}

// Sender is the user behind an update.
type Sender struct{ ID int64 }

func validateSender(u *domain.Update) (Sender, bool) {
	if u.From == nil {
		return Sender{}, false
	}
	return Sender{ID: u.From.ID}, true
}

// Shout is the upper-cased text of a text message.
type Shout string

func validateShout(u *domain.Update) (Shout, bool) {
	if !u.IsText() {
		return "", false
	}
	return Shout(strings.ToUpper(u.Text)), true
}

// Tagged depends on two validators sharing the Update.
type Tagged struct {
	Sender Sender
	Shout  Shout
}

func validateTagged(s Sender, sh Shout) (Tagged, bool) {
	return Tagged{Sender: s, Shout: sh}, s.ID > 0
}

type EchoCommand struct{ Msg HelloMessage }

func NewEchoCommand(m HelloMessage) *EchoCommand { return &EchoCommand{Msg: m} }

func (c *EchoCommand) Execute(context.Context) (*domain.Response, error) {
	return domain.NewResponse(domain.Text(c.Msg.ChatID(), c.Msg.Text)), nil
}

// FollowUp is a continuation injected into AskCommand.
type FollowUp struct{ Sender Sender }

func NewFollowUp(s Sender) *FollowUp { return &FollowUp{Sender: s} }

func (c *FollowUp) Execute(context.Context) (*domain.Response, error) {
	return domain.NewResponse(), nil
}

type AskCommand struct {
	Next   *FollowUp
	Tagged Tagged
	Bot    domain.BotIdentity
}

func NewAskCommand(next *FollowUp, t Tagged, client domain.Client) *AskCommand {
	return &AskCommand{Next: next, Tagged: t, Bot: client.Identity()}
}

func (c *AskCommand) Execute(context.Context) (*domain.Response, error) {
	return domain.Forced(c.Next), nil
}

type PingCommand struct{}

func (PingCommand) Execute(context.Context) (*domain.Response, error) { return domain.NewResponse(), nil }

func newCatalog() *resolve.Catalog {
	cat := resolve.NewCatalog()
	resolve.MustRegister(
		resolve.Validator1(cat, validateHello),
		resolve.Validator1(cat, validateSender),
		resolve.Validator1(cat, validateShout),
		resolve.Validator2(cat, validateTagged),
		resolve.Command1(cat, domain.VariantStatic, NewEchoCommand),
		resolve.Command1(cat, domain.VariantContinuation, NewFollowUp),
		resolve.Command3(cat, domain.VariantStatic, NewAskCommand),
		resolve.Command0(cat, domain.VariantStart, func() PingCommand { return PingCommand{} }),
	)
	return cat
}

var testClient = domain.StaticClient{ID: 99, Username: "test_bot"}

func textUpdate(from int64, text string) *domain.Update {
	return &domain.Update{
		ID:      from*1000 + int64(len(text)),
		Kind:    domain.KindMessage,
		Content: domain.ContentText,
		From:    &domain.User{ID: from},
		Chat:    &domain.Chat{ID: from},
		Text:    text,
	}
}
