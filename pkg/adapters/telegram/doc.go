// Package telegram connects the dispatch engine to the Telegram Bot API
// through github.com/go-telegram-bot-api/telegram-bot-api/v5.
//
// Client is a ports.Transport: it pulls updates with long polling and turns
// every domain.Message into the matching Bot API request. DecodeUpdate and
// FromUpdate normalize native payloads, and are shared with the webhook source.
package telegram
