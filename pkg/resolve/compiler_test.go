package resolve_test

import (
	"sync"
	"testing"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompiler_MatchesResolver(t *testing.T) {
	cat := newCatalog()
	interpreted := resolve.NewResolver(cat)
	compiled := resolve.NewCompiler(cat)

	updates := []*domain.Update{
		textUpdate(1, "hello"),
		textUpdate(2, "bye"),
		textUpdate(3, ""),
		{Kind: domain.KindCallbackQuery, From: &domain.User{ID: 4}, Text: "hello"},
		{Kind: domain.KindMessage, Content: domain.ContentText, Chat: &domain.Chat{ID: 5}, Text: "hello"},
		{Kind: domain.KindUnknown},
	}

	for _, e := range cat.Commands() {
		for _, u := range updates {
			want, wantOK := interpreted.Build(e.Type, u, testClient)
			got, gotOK := compiled.Build(e.Type, u, testClient)

			assert.Equal(t, wantOK, gotOK, "%s for %s", e.Name, u)
			assert.Equal(t, want, got, "%s for %s", e.Name, u)
		}
	}
}

func TestCompiler_Idempotent(t *testing.T) {
	cat := newCatalog()
	c := resolve.NewCompiler(cat)
	u := textUpdate(8, "hello")

	first, ok := c.Build(resolve.TypeOf[*EchoCommand](), u, testClient)
	require.True(t, ok)
	second, ok := c.Build(resolve.TypeOf[*EchoCommand](), u, testClient)
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second, "each build constructs a fresh instance")
}

func TestCompiler_ConcurrentFirstUse(t *testing.T) {
	cat := newCatalog()
	c := resolve.NewCompiler(cat)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			cmd, ok := c.Build(resolve.TypeOf[*AskCommand](), textUpdate(id+1, "hi"), testClient)
			if assert.True(t, ok) {
				assert.Equal(t, id+1, cmd.(*AskCommand).Next.Sender.ID)
			}
		}(int64(i))
	}
	wg.Wait()

	f1, err := c.Compile(resolve.TypeOf[*AskCommand]())
	require.NoError(t, err)
	f2, err := c.Compile(resolve.TypeOf[*AskCommand]())
	require.NoError(t, err)
	cmd1, _ := f1(textUpdate(1, "a"), testClient)
	cmd2, _ := f2(textUpdate(1, "a"), testClient)
	assert.Equal(t, cmd1, cmd2)
}

func TestCompiler_Errors(t *testing.T) {
	cat := newCatalog()
	c := resolve.NewCompiler(cat)

	_, err := c.Compile(resolve.TypeOf[Unregistered]())
	assert.ErrorIs(t, err, resolve.ErrNoProvider)

	_, err = c.Compile(resolve.TypeOf[HelloMessage]())
	assert.Error(t, err, "validators are not compiled on their own")

	assert.NoError(t, c.Warm())
}
