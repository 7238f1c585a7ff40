package telegram

import (
	"encoding/json"
	"fmt"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DecodeUpdate parses a Bot API update, as posted to webhooks.
func DecodeUpdate(data []byte) (*domain.Update, error) {
	var u tgbotapi.Update
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode telegram update: %w", err)
	}
	return FromUpdate(u), nil
}

// FromUpdate normalizes a Bot API update. The native value is kept in Raw.
func FromUpdate(u tgbotapi.Update) *domain.Update {
	out := &domain.Update{
		ID:   int64(u.UpdateID),
		Kind: domain.KindUnknown,
		Raw:  u,
	}

	switch {
	case u.Message != nil:
		out.Kind = domain.KindMessage
		fromMessage(out, u.Message)
	case u.EditedMessage != nil:
		out.Kind = domain.KindEditedMessage
		fromMessage(out, u.EditedMessage)
	case u.ChannelPost != nil:
		out.Kind = domain.KindChannelPost
		fromMessage(out, u.ChannelPost)
	case u.EditedChannelPost != nil:
		out.Kind = domain.KindEditedChannelPost
		fromMessage(out, u.EditedChannelPost)
	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		out.Kind = domain.KindCallbackQuery
		out.From = fromUser(q.From)
		out.Text = q.Data
		out.CallbackID = q.ID
		if q.Message != nil {
			out.Chat = fromChat(q.Message.Chat)
			out.MessageID = q.Message.MessageID
		}
	case u.InlineQuery != nil:
		out.Kind = domain.KindInlineQuery
		out.From = fromUser(u.InlineQuery.From)
		out.Text = u.InlineQuery.Query
	case u.ChosenInlineResult != nil:
		out.Kind = domain.KindChosenInlineResult
		out.From = fromUser(u.ChosenInlineResult.From)
		out.Text = u.ChosenInlineResult.ResultID
	case u.ShippingQuery != nil:
		out.Kind = domain.KindShippingQuery
		out.From = fromUser(u.ShippingQuery.From)
		out.Text = u.ShippingQuery.InvoicePayload
	case u.PreCheckoutQuery != nil:
		out.Kind = domain.KindPreCheckoutQuery
		out.From = fromUser(u.PreCheckoutQuery.From)
		out.Text = u.PreCheckoutQuery.InvoicePayload
	}
	return out
}

func fromMessage(out *domain.Update, m *tgbotapi.Message) {
	out.From = fromUser(m.From)
	out.Chat = fromChat(m.Chat)
	out.MessageID = m.MessageID

	switch {
	case m.Text != "":
		out.Content = domain.ContentText
		out.Text = m.Text
	case len(m.Photo) > 0:
		// The last size is the largest.
		out.Content = domain.ContentPhoto
		out.FileID = m.Photo[len(m.Photo)-1].FileID
		out.Text = m.Caption
	case m.Document != nil:
		out.Content = domain.ContentDocument
		out.FileID = m.Document.FileID
		out.Text = m.Caption
	case m.Sticker != nil:
		out.Content = domain.ContentSticker
		out.FileID = m.Sticker.FileID
		out.Text = m.Sticker.Emoji
	case m.Audio != nil:
		out.Content = domain.ContentAudio
		out.FileID = m.Audio.FileID
		out.Text = m.Caption
	case m.Video != nil:
		out.Content = domain.ContentVideo
		out.FileID = m.Video.FileID
		out.Text = m.Caption
	case m.Voice != nil:
		out.Content = domain.ContentVoice
		out.FileID = m.Voice.FileID
	case m.Contact != nil:
		out.Content = domain.ContentContact
		out.Text = m.Contact.PhoneNumber
	case m.Poll != nil:
		out.Content = domain.ContentPoll
		out.Text = m.Poll.Question
	default:
		out.Content = domain.ContentOther
	}
}

func fromUser(u *tgbotapi.User) *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{
		ID:        u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsBot:     u.IsBot,
	}
}

func fromChat(c *tgbotapi.Chat) *domain.Chat {
	if c == nil {
		return nil
	}
	return &domain.Chat{ID: c.ID, Type: c.Type, Title: c.Title}
}
