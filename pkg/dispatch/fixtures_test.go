package dispatch_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/dispatch"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
	"github.com/stretchr/testify/require"
)

// Hello is a text message saying exactly "hello".
type Hello struct{ *domain.Update }

func validateHello(u *domain.Update) (Hello, bool) { return Hello{u}, u.Text == "hello" }

// Text is any text message.
type Text struct{ *domain.Update }

func validateText(u *domain.Update) (Text, bool) { return Text{u}, u.IsText() }

func reply(u *domain.Update, text string) *domain.Response {
	return domain.NewResponse(domain.Text(u.ChatID(), text))
}

type Echo struct{ msg Hello }

func (c *Echo) Execute(context.Context) (*domain.Response, error) {
	return reply(c.msg.Update, c.msg.Text), nil
}

// Start opens the conversation by asking for a name.
type Start struct {
	msg Text
	ask *AskName
}

func (c *Start) Suitable(u *domain.Update) bool { return u.IsCommand("start") }

func (c *Start) Execute(context.Context) (*domain.Response, error) {
	return domain.Forced(c.ask, domain.Text(c.msg.ChatID(), "What is your name?")), nil
}

type AskName struct{}

func (c *AskName) Suitable(u *domain.Update) bool { return u.IsText() }

func (c *AskName) Execute(ctx context.Context) (*domain.Response, error) {
	u := domain.UpdateFrom(ctx)
	return reply(u, "Nice to meet you, "+u.Text), nil
}

// Menu offers two answers.
type Menu struct {
	msg Text
	yes *Yes
	no  *No
}

func (c *Menu) Suitable(u *domain.Update) bool { return u.IsCommand("menu") }

func (c *Menu) Execute(context.Context) (*domain.Response, error) {
	return domain.Candidates([]domain.Command{c.yes, c.no}, domain.Text(c.msg.ChatID(), "yes or no?")), nil
}

type Yes struct{}

func (*Yes) Suitable(u *domain.Update) bool { return u.Text == "yes" }
func (*Yes) Execute(ctx context.Context) (*domain.Response, error) {
	return reply(domain.UpdateFrom(ctx), "you said yes"), nil
}

type No struct{}

func (*No) Suitable(u *domain.Update) bool { return u.Text == "no" }
func (*No) Execute(ctx context.Context) (*domain.Response, error) {
	return reply(domain.UpdateFrom(ctx), "you said no"), nil
}

// Flaky is a multi-use continuation failing on "fail".
type Flaky struct{}

func (*Flaky) Done() bool { return false }
func (*Flaky) Execute(ctx context.Context) (*domain.Response, error) {
	u := domain.UpdateFrom(ctx)
	if u.Text == "fail" {
		return nil, errors.New("flaky failed")
	}
	return reply(u, "flaky ok"), nil
}

type StartFlaky struct {
	msg   Text
	flaky *Flaky
}

func (c *StartFlaky) Suitable(u *domain.Update) bool { return u.IsCommand("flaky") }
func (c *StartFlaky) Execute(context.Context) (*domain.Response, error) {
	return domain.Forced(c.flaky), nil
}

// OneShot marks itself done and then fails.
type OneShot struct{ done bool }

func (c *OneShot) Done() bool { return c.done }
func (c *OneShot) Execute(context.Context) (*domain.Response, error) {
	c.done = true
	return nil, errors.New("one shot failed")
}

type StartOneShot struct {
	msg  Text
	shot *OneShot
}

func (c *StartOneShot) Suitable(u *domain.Update) bool { return u.IsCommand("oneshot") }
func (c *StartOneShot) Execute(context.Context) (*domain.Response, error) {
	return domain.Forced(c.shot), nil
}

// Quiet keeps static commands away from the next update.
type Quiet struct{ msg Text }

func (c *Quiet) Suitable(u *domain.Update) bool { return u.IsCommand("quiet") }
func (c *Quiet) Execute(context.Context) (*domain.Response, error) {
	return reply(c.msg.Update, "shh").WithoutStatic(), nil
}

// Boom panics.
type Boom struct{ msg Text }

func (c *Boom) Suitable(u *domain.Update) bool { return u.Text == "boom" }
func (c *Boom) Execute(context.Context) (*domain.Response, error) {
	panic("kaboom")
}

// Counter is a multi-use continuation counting its executions.
type Counter struct{ n int }

func (*Counter) Done() bool { return false }
func (c *Counter) Execute(ctx context.Context) (*domain.Response, error) {
	c.n++
	return reply(domain.UpdateFrom(ctx), strconv.Itoa(c.n)), nil
}

type StartCounter struct {
	msg     Text
	counter *Counter
}

func (c *StartCounter) Suitable(u *domain.Update) bool { return u.IsCommand("count") }
func (c *StartCounter) Execute(context.Context) (*domain.Response, error) {
	return domain.Forced(c.counter), nil
}

// Fallback answers every text nobody else wanted.
type Fallback struct{ msg Text }

func (c *Fallback) SuitableLast(u *domain.Update) bool { return true }
func (c *Fallback) Execute(context.Context) (*domain.Response, error) {
	return reply(c.msg.Update, "unknown command"), nil
}

// Shadow pre-empts Echo.
type Shadow struct{ msg Text }

func (c *Shadow) SuitableFirst(u *domain.Update) bool { return u.Text == "hello" }
func (c *Shadow) Execute(context.Context) (*domain.Response, error) {
	return reply(c.msg.Update, "shadowed"), nil
}

func register(c *resolve.Catalog) []error {
	return []error{
		resolve.Validator1(c, validateHello),
		resolve.Validator1(c, validateText),
		resolve.Command1(c, domain.VariantStatic, func(m Hello) *Echo { return &Echo{msg: m} }),
		resolve.Command2(c, domain.VariantStart, func(m Text, a *AskName) *Start { return &Start{msg: m, ask: a} }),
		resolve.Command0(c, domain.VariantContinuation, func() *AskName { return &AskName{} }),
		resolve.Command3(c, domain.VariantStatic, func(m Text, y *Yes, n *No) *Menu { return &Menu{msg: m, yes: y, no: n} }),
		resolve.Command0(c, domain.VariantContinuation, func() *Yes { return &Yes{} }),
		resolve.Command0(c, domain.VariantContinuation, func() *No { return &No{} }),
		resolve.Command0(c, domain.VariantContinuation, func() *Flaky { return &Flaky{} }),
		resolve.Command2(c, domain.VariantStatic, func(m Text, f *Flaky) *StartFlaky { return &StartFlaky{msg: m, flaky: f} }),
		resolve.Command0(c, domain.VariantContinuation, func() *OneShot { return &OneShot{} }),
		resolve.Command2(c, domain.VariantStatic, func(m Text, s *OneShot) *StartOneShot { return &StartOneShot{msg: m, shot: s} }),
		resolve.Command1(c, domain.VariantStatic, func(m Text) *Quiet { return &Quiet{msg: m} }),
		resolve.Command1(c, domain.VariantStatic, func(m Text) *Boom { return &Boom{msg: m} }),
		resolve.Command0(c, domain.VariantContinuation, func() *Counter { return &Counter{} }),
		resolve.Command2(c, domain.VariantStatic, func(m Text, k *Counter) *StartCounter { return &StartCounter{msg: m, counter: k} }),
	}
}

func withFallback(c *resolve.Catalog) []error {
	return []error{resolve.Command1(c, domain.VariantStatic, func(m Text) *Fallback { return &Fallback{msg: m} })}
}

func withShadow(c *resolve.Catalog) []error {
	return []error{resolve.Command1(c, domain.VariantStatic, func(m Text) *Shadow { return &Shadow{msg: m} })}
}

// modes runs a test against both resolution strategies.
var modes = map[string][]dispatch.Option{
	"Compiled":    nil,
	"Interpreted": {dispatch.WithInterpretedResolution()},
}

func newDispatcher(t *testing.T, regs []func(*resolve.Catalog) []error, opts ...dispatch.Option) *dispatch.Dispatcher {
	t.Helper()
	cat := resolve.NewCatalog()
	for _, reg := range regs {
		require.NoError(t, errors.Join(reg(cat)...))
	}
	return dispatch.New(cat, opts...)
}

func text(from int64, s string) *domain.Update {
	return &domain.Update{
		ID:      0,
		Kind:    domain.KindMessage,
		Content: domain.ContentText,
		From:    &domain.User{ID: from},
		Chat:    &domain.Chat{ID: from},
		Text:    s,
	}
}

// replies returns the texts of a turn's messages.
func replies(turn *dispatch.Turn) []string {
	var out []string
	for _, m := range turn.Messages() {
		if tm, ok := m.(domain.TextMessage); ok {
			out = append(out, tm.Text)
		}
	}
	return out
}
