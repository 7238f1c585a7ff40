package runner_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/adapters/memory"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/dispatch"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Text struct{ *domain.Update }

func validateText(u *domain.Update) (Text, bool) { return Text{u}, u.Text != "" }

// Echo replies with the text, pausing first when asked to.
type Echo struct{ msg Text }

func (c *Echo) Execute(context.Context) (*domain.Response, error) {
	if c.msg.Text == "slow" {
		time.Sleep(20 * time.Millisecond)
	}
	return domain.NewResponse(domain.Text(c.msg.ChatID(), c.msg.Text)), nil
}

func newDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	cat := resolve.NewCatalog()
	require.NoError(t, errors.Join(
		resolve.Validator1(cat, validateText),
		resolve.Command1(cat, domain.VariantStatic, func(m Text) *Echo { return &Echo{msg: m} }),
	))
	return dispatch.New(cat)
}

func msg(from int64, text string) *domain.Update {
	return &domain.Update{
		Kind:    domain.KindMessage,
		Content: domain.ContentText,
		From:    &domain.User{ID: from},
		Chat:    &domain.Chat{ID: from},
		Text:    text,
	}
}

func run(t *testing.T, r *runner.Runner) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()
	return done
}

func textsByChat(msgs []domain.Message) map[int64][]string {
	out := make(map[int64][]string)
	for _, m := range msgs {
		tm := m.(domain.TextMessage)
		out[tm.ChatID] = append(out[tm.ChatID], tm.Text)
	}
	return out
}

func TestRunner_PreservesOrderPerConversation(t *testing.T) {
	tr := memory.NewTransport(memory.WithBuffer(128))
	r := runner.New(newDispatcher(t), tr, tr, runner.WithWorkers(4))

	var want []string
	for i := range 20 {
		text := strconv.Itoa(i)
		if i%5 == 0 {
			text = "slow"
		}
		want = append(want, text)
		for chat := int64(1); chat <= 3; chat++ {
			tr.Push(msg(chat, text))
		}
	}
	tr.Close()

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not drain the closed source")
	}

	byChat := textsByChat(tr.Sent())
	for chat := int64(1); chat <= 3; chat++ {
		assert.Equal(t, want, byChat[chat], "chat %d", chat)
	}
}

func TestRunner_SlowConversationDoesNotBlockOthers(t *testing.T) {
	tr := memory.NewTransport()
	r := runner.New(newDispatcher(t), tr, tr, runner.WithWorkers(4))
	done := run(t, r)

	tr.Push(msg(1, "slow"), msg(1, "slow"), msg(1, "slow"), msg(2, "fast"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	first, err := tr.WaitSent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "fast", first[0].(domain.TextMessage).Text)

	tr.Close()
	require.NoError(t, <-done)
	assert.Len(t, tr.Sent(), 4)
}

func TestRunner_KeylessUpdates(t *testing.T) {
	tr := memory.NewTransport()
	r := runner.New(newDispatcher(t), tr, tr)
	done := run(t, r)

	tr.Push(&domain.Update{Kind: domain.KindChannelPost, Text: "anonymous"})
	tr.Close()
	require.NoError(t, <-done)

	require.Len(t, tr.Sent(), 1)
	assert.Equal(t, "anonymous", tr.Sent()[0].(domain.TextMessage).Text)
}

func TestRunner_SendFailureIsReported(t *testing.T) {
	tr := memory.NewTransport(memory.WithSendError(func(m domain.Message) error {
		if m.(domain.TextMessage).Text == "bad" {
			return errors.New("chat not found")
		}
		return nil
	}))

	var mu sync.Mutex
	var events []*domain.SendEvent
	r := runner.New(newDispatcher(t), tr, tr, runner.WithHooks(domain.LifecycleHooks{
		OnSendError: func(_ context.Context, e *domain.SendEvent) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		},
	}))
	done := run(t, r)

	tr.Push(msg(1, "bad"), msg(1, "good"))
	tr.Close()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, domain.MessageText, events[0].Kind)
	assert.Equal(t, int64(1), events[0].Conversation)
	assert.NotEmpty(t, events[0].TurnID)
	assert.EqualError(t, events[0].Err, "chat not found")

	// The failure does not stop the conversation.
	assert.Equal(t, []string{"good"}, textsByChat(tr.Sent())[1])
}

func TestRunner_StopsOnCancel(t *testing.T) {
	tr := memory.NewTransport()
	r := runner.New(newDispatcher(t), tr, tr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	tr.Push(msg(1, "hi"))
	_, err := tr.WaitSent(context.Background(), 1)
	require.NoError(t, err)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner ignored cancellation")
	}
}

type brokenSource struct{}

func (brokenSource) NextEvent(context.Context) (*domain.Update, error) {
	return nil, errors.New("connection reset")
}

func TestRunner_SourceErrorStopsLoop(t *testing.T) {
	tr := memory.NewTransport()
	r := runner.New(newDispatcher(t), brokenSource{}, tr)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRunner_Sweep(t *testing.T) {
	tr := memory.NewTransport()
	var gauge []int
	r := runner.New(newDispatcher(t), tr, tr,
		runner.WithIdleTimeout(time.Millisecond),
		runner.WithConversationGauge(func(n int) { gauge = append(gauge, n) }),
	)
	done := run(t, r)

	tr.Push(msg(1, "a"), msg(2, "b"))
	tr.Close()
	require.NoError(t, <-done)

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, []int{0}, gauge)
}

// Block holds its worker until the gate opens.
type Block struct {
	entered chan<- struct{}
	gate    <-chan struct{}
}

func (c *Block) Suitable(u *domain.Update) bool { return u.Text == "block" }
func (c *Block) Execute(context.Context) (*domain.Response, error) {
	c.entered <- struct{}{}
	<-c.gate
	return domain.NewResponse(), nil
}

type Ask struct{ answer *Answer }

func (c *Ask) Suitable(u *domain.Update) bool { return u.Text == "/ask" }
func (c *Ask) Execute(context.Context) (*domain.Response, error) {
	return domain.Forced(c.answer), nil
}

type Answer struct{}

func (*Answer) Execute(ctx context.Context) (*domain.Response, error) {
	u := domain.UpdateFrom(ctx)
	return domain.NewResponse(domain.Text(u.ChatID(), "answered "+u.Text)), nil
}

func TestRunner_QueuedConversationSurvivesSweep(t *testing.T) {
	entered := make(chan struct{}, 1)
	gate := make(chan struct{})
	cat := resolve.NewCatalog()
	require.NoError(t, errors.Join(
		resolve.Validator1(cat, validateText),
		resolve.Command1(cat, domain.VariantStatic, func(Text) *Block { return &Block{entered: entered, gate: gate} }),
		resolve.Command1(cat, domain.VariantStatic, func(a *Answer) *Ask { return &Ask{answer: a} }),
		resolve.Command0(cat, domain.VariantContinuation, func() *Answer { return &Answer{} }),
	))
	d := dispatch.New(cat)

	_, err := d.Dispatch(context.Background(), msg(1, "/ask"))
	require.NoError(t, err)
	require.Equal(t, 1, d.Sessions().Pending())
	time.Sleep(5 * time.Millisecond)

	tr := memory.NewTransport()
	r := runner.New(d, tr, tr, runner.WithWorkers(1), runner.WithIdleTimeout(time.Millisecond))
	done := run(t, r)

	tr.Push(msg(2, "block"))
	<-entered
	tr.Push(msg(1, "later"))

	// Held conversations are left out of Pending.
	require.Eventually(t, func() bool { return d.Sessions().Pending() == 0 }, time.Second, time.Millisecond)
	assert.Equal(t, 2, r.Sweep(), "the queued conversation and the busy one are kept")

	close(gate)
	tr.Close()
	require.NoError(t, <-done)

	assert.Equal(t, map[int64][]string{1: {"answered later"}}, textsByChat(tr.Sent()))
}
