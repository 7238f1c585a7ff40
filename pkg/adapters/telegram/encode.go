package telegram

import (
	"errors"
	"fmt"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var errEmptyFile = errors.New("file has neither id, url nor bytes")

// Encode maps an output message to the Bot API request that delivers it.
func Encode(msg domain.Message) (tgbotapi.Chattable, error) {
	switch m := msg.(type) {
	case domain.TextMessage:
		cfg := tgbotapi.NewMessage(m.ChatID, m.Text)
		cfg.ParseMode = string(m.ParseMode)
		cfg.ReplyToMessageID = m.ReplyToMessageID
		cfg.DisableWebPagePreview = m.DisableWebPagePreview
		cfg.DisableNotification = m.DisableNotification
		if kb := encodeKeyboard(m.Keyboard); kb != nil {
			cfg.ReplyMarkup = kb
		}
		return cfg, nil

	case domain.EditText:
		cfg := tgbotapi.NewEditMessageText(m.ChatID, m.MessageID, m.Text)
		cfg.ParseMode = string(m.ParseMode)
		if m.Keyboard != nil {
			markup := inlineKeyboard(m.Keyboard)
			cfg.ReplyMarkup = &markup
		}
		return cfg, nil

	case domain.EditMarkup:
		return tgbotapi.NewEditMessageReplyMarkup(m.ChatID, m.MessageID, inlineKeyboard(m.Keyboard)), nil

	case domain.AnswerCallback:
		cfg := tgbotapi.NewCallback(m.CallbackID, m.Text)
		cfg.ShowAlert = m.ShowAlert
		return cfg, nil

	case domain.Document:
		file, err := encodeFile(m.File)
		if err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
		cfg := tgbotapi.NewDocument(m.ChatID, file)
		cfg.Caption = m.Caption
		cfg.ReplyToMessageID = m.ReplyToMessageID
		if kb := encodeKeyboard(m.Keyboard); kb != nil {
			cfg.ReplyMarkup = kb
		}
		return cfg, nil

	case domain.Photo:
		file, err := encodeFile(m.File)
		if err != nil {
			return nil, fmt.Errorf("photo: %w", err)
		}
		cfg := tgbotapi.NewPhoto(m.ChatID, file)
		cfg.Caption = m.Caption
		cfg.ReplyToMessageID = m.ReplyToMessageID
		if kb := encodeKeyboard(m.Keyboard); kb != nil {
			cfg.ReplyMarkup = kb
		}
		return cfg, nil

	case domain.Sticker:
		file, err := encodeFile(m.File)
		if err != nil {
			return nil, fmt.Errorf("sticker: %w", err)
		}
		return tgbotapi.NewSticker(m.ChatID, file), nil
	}

	if msg == nil {
		return nil, fmt.Errorf("%w: nil", domain.ErrUnsupportedMessage)
	}
	return nil, fmt.Errorf("%w: %s (%T)", domain.ErrUnsupportedMessage, msg.MessageKind(), msg)
}

func encodeFile(f domain.File) (tgbotapi.RequestFileData, error) {
	switch {
	case f.ID != "":
		return tgbotapi.FileID(f.ID), nil
	case f.URL != "":
		return tgbotapi.FileURL(f.URL), nil
	case len(f.Bytes) > 0:
		name := f.Name
		if name == "" {
			name = "file"
		}
		return tgbotapi.FileBytes{Name: name, Bytes: f.Bytes}, nil
	}
	return nil, errEmptyFile
}

// encodeKeyboard returns the reply markup for k, or nil.
func encodeKeyboard(k *domain.Keyboard) any {
	if k == nil {
		return nil
	}
	if k.Remove {
		return tgbotapi.NewRemoveKeyboard(false)
	}
	if k.Inline {
		return inlineKeyboard(k)
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(k.Rows))
	for _, row := range k.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Text))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}

// inlineKeyboard converts k to inline markup. A nil keyboard clears the markup.
func inlineKeyboard(k *domain.Keyboard) tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	if k == nil {
		return markup
	}
	for _, row := range k.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
				continue
			}
			data := b.Data
			if data == "" {
				data = b.Text
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, data))
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}
