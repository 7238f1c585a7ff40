package botcore_test

import (
	"context"
	"fmt"
	"log"

	"github.com/AskoldMakaruk/TelegramBotCore"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/adapters/memory"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
)

// Greeting is a text message saying "hello".
type Greeting struct{ *domain.Update }

// EchoCommand repeats greetings back.
type EchoCommand struct{ msg Greeting }

func (c *EchoCommand) Execute(context.Context) (*domain.Response, error) {
	return domain.NewResponse(domain.Text(c.msg.ChatID(), c.msg.Text)), nil
}

// ExampleNew runs a bot over the in-memory transport until its updates are exhausted.
func ExampleNew() {
	cat := resolve.NewCatalog()
	resolve.MustRegister(
		resolve.Validator1(cat, func(u *domain.Update) (Greeting, bool) {
			return Greeting{u}, u.Text == "hello"
		}),
		resolve.Command1(cat, domain.VariantStatic, func(m Greeting) *EchoCommand {
			return &EchoCommand{msg: m}
		}),
	)

	tr := memory.NewTransport()
	bot, err := botcore.New(cat, tr, tr)
	if err != nil {
		log.Fatal(err)
	}

	tr.Push(
		&domain.Update{ID: 1, Kind: domain.KindMessage, Content: domain.ContentText, From: &domain.User{ID: 7}, Text: "hello"},
		&domain.Update{ID: 2, Kind: domain.KindMessage, Content: domain.ContentText, From: &domain.User{ID: 7}, Text: "bye"},
	)
	tr.Close()

	if err := bot.Run(context.Background()); err != nil {
		log.Fatal(err)
	}

	for _, m := range tr.Sent() {
		fmt.Println(m.(domain.TextMessage).Text)
	}
	// Output:
	// hello
}
