// Package demo is the example command set shipped with the botcore CLI.
package demo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
)

// Hello is a text message saying exactly "hello".
type Hello struct{ *domain.Update }

// Text is any plain text message.
type Text struct{ *domain.Update }

func validateHello(u *domain.Update) (Hello, bool) {
	return Hello{u}, u.IsText() && strings.EqualFold(u.Text, "hello")
}

func validateText(u *domain.Update) (Text, bool) { return Text{u}, u.IsText() }

// Register adds the demo commands and validators to cat.
func Register(cat *resolve.Catalog) error {
	return errors.Join(
		resolve.Validator1(cat, validateHello),
		resolve.Validator1(cat, validateText),

		resolve.Command1(cat, domain.VariantStatic, func(m Hello) *Echo { return &Echo{msg: m} }),
		resolve.Command2(cat, domain.VariantStart, func(m Text, ask *AskName) *Start { return &Start{msg: m, ask: ask} }),
		resolve.Command2(cat, domain.VariantContinuation, func(yes *LikeYes, no *LikeNo) *AskName { return &AskName{yes: yes, no: no} }),
		resolve.Command0(cat, domain.VariantContinuation, func() *LikeYes { return &LikeYes{} }),
		resolve.Command0(cat, domain.VariantContinuation, func() *LikeNo { return &LikeNo{} }),
		resolve.Command1(cat, domain.VariantStatic, func(m Text) *Help { return &Help{msg: m} }),
		resolve.Command2(cat, domain.VariantStatic, func(m Text, c domain.Client) *WhoAmI { return &WhoAmI{msg: m, client: c} }),
		resolve.Command1(cat, domain.VariantStatic, func(m Text) *Fallback { return &Fallback{msg: m} }),
	)
}

// Echo repeats a greeting.
type Echo struct{ msg Hello }

func (c *Echo) Execute(context.Context) (*domain.Response, error) {
	return domain.NewResponse(domain.Text(c.msg.ChatID(), c.msg.Text)), nil
}

// Start opens a conversation by asking for the user's name.
type Start struct {
	msg Text
	ask *AskName
}

func (c *Start) Suitable(u *domain.Update) bool { return u.IsCommand("start") }

func (c *Start) Execute(context.Context) (*domain.Response, error) {
	return domain.Forced(c.ask, domain.Text(c.msg.ChatID(), "Hi! What is your name?")), nil
}

var likeKeyboard = &domain.Keyboard{Rows: [][]domain.Button{{{Text: "Yes"}, {Text: "No"}}}}

// AskName receives the name and offers a yes/no question.
type AskName struct {
	yes *LikeYes
	no  *LikeNo
}

func (c *AskName) Suitable(u *domain.Update) bool { return u.IsText() && !strings.HasPrefix(u.Text, "/") }

func (c *AskName) Execute(ctx context.Context) (*domain.Response, error) {
	u := domain.UpdateFrom(ctx)
	msg := domain.TextMessage{
		ChatID:   u.ChatID(),
		Text:     fmt.Sprintf("Nice to meet you, %s. Do you like bots?", u.Text),
		Keyboard: likeKeyboard,
	}
	return domain.Candidates([]domain.Command{c.yes, c.no}, msg), nil
}

var removeKeyboard = &domain.Keyboard{Remove: true}

type LikeYes struct{}

func (*LikeYes) Suitable(u *domain.Update) bool { return u.IsText() && u.Text == "Yes" }

func (*LikeYes) Execute(ctx context.Context) (*domain.Response, error) {
	u := domain.UpdateFrom(ctx)
	return domain.NewResponse(domain.TextMessage{ChatID: u.ChatID(), Text: "Great, so do I.", Keyboard: removeKeyboard}), nil
}

type LikeNo struct{}

func (*LikeNo) Suitable(u *domain.Update) bool { return u.IsText() && u.Text == "No" }

func (*LikeNo) Execute(ctx context.Context) (*domain.Response, error) {
	u := domain.UpdateFrom(ctx)
	return domain.NewResponse(domain.TextMessage{ChatID: u.ChatID(), Text: "Fair enough.", Keyboard: removeKeyboard}), nil
}

// HelpText is the reply to /help.
const HelpText = `/start - introduce yourself
/whoami - show the bot account
/help - this message
Say "hello" and I will say it back.`

type Help struct{ msg Text }

func (c *Help) Suitable(u *domain.Update) bool { return u.IsCommand("help") }

func (c *Help) Execute(context.Context) (*domain.Response, error) {
	return domain.NewResponse(domain.Text(c.msg.ChatID(), HelpText)), nil
}

// WhoAmI reports the bot account it runs as.
type WhoAmI struct {
	msg    Text
	client domain.Client
}

func (c *WhoAmI) Suitable(u *domain.Update) bool { return u.IsCommand("whoami") }

func (c *WhoAmI) Execute(context.Context) (*domain.Response, error) {
	return domain.NewResponse(domain.Text(c.msg.ChatID(), "I am @"+c.client.Identity().Username)), nil
}

// Fallback answers any text nothing else handled.
type Fallback struct{ msg Text }

func (c *Fallback) SuitableLast(*domain.Update) bool { return true }

func (c *Fallback) Execute(context.Context) (*domain.Response, error) {
	return domain.NewResponse(domain.Text(c.msg.ChatID(), "Sorry, I don't understand. Try /help.")), nil
}
