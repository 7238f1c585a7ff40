package domain

import (
	"fmt"
	"strings"
)

// UpdateKind classifies an inbound Update.
type UpdateKind string

const (
	KindMessage            UpdateKind = "message"
	KindEditedMessage      UpdateKind = "edited_message"
	KindChannelPost        UpdateKind = "channel_post"
	KindEditedChannelPost  UpdateKind = "edited_channel_post"
	KindCallbackQuery      UpdateKind = "callback_query"
	KindInlineQuery        UpdateKind = "inline_query"
	KindChosenInlineResult UpdateKind = "chosen_inline_result"
	KindShippingQuery      UpdateKind = "shipping_query"
	KindPreCheckoutQuery   UpdateKind = "pre_checkout_query"
	KindUnknown            UpdateKind = "unknown"
)

// ContentKind classifies the payload of a message-like Update.
type ContentKind string

const (
	ContentNone     ContentKind = ""
	ContentText     ContentKind = "text"
	ContentPhoto    ContentKind = "photo"
	ContentDocument ContentKind = "document"
	ContentSticker  ContentKind = "sticker"
	ContentAudio    ContentKind = "audio"
	ContentVideo    ContentKind = "video"
	ContentVoice    ContentKind = "voice"
	ContentContact  ContentKind = "contact"
	ContentPoll     ContentKind = "poll"
	ContentOther    ContentKind = "other"
)

// User is the sender of an Update.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsBot     bool   `json:"is_bot,omitempty"`
}

// Chat is the conversation an Update belongs to.
type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// Update is one inbound unit from the chat platform.
// Transports normalize their native payload into this shape and keep the
// original value in Raw for handlers that need platform-specific fields.
type Update struct {
	ID        int64       `json:"id"`
	Kind      UpdateKind  `json:"kind"`
	Content   ContentKind `json:"content,omitempty"`
	From      *User       `json:"from,omitempty"`
	Chat      *Chat       `json:"chat,omitempty"`
	MessageID int         `json:"message_id,omitempty"`

	// Text carries the human-readable contents: message text, caption,
	// callback data or inline query, depending on Kind.
	Text string `json:"text,omitempty"`

	// FileID references an attached document, photo or sticker.
	FileID string `json:"file_id,omitempty"`

	// CallbackID is set for callback queries and is required to answer them.
	CallbackID string `json:"callback_id,omitempty"`

	Raw any `json:"-"`
}

// ConversationKey returns the identifier that groups this update with the
// rest of its exchange: the sender when known, the chat otherwise.
func (u *Update) ConversationKey() (int64, bool) {
	if u == nil {
		return 0, false
	}
	if u.From != nil && u.From.ID != 0 {
		return u.From.ID, true
	}
	if u.Chat != nil && u.Chat.ID != 0 {
		return u.Chat.ID, true
	}
	return 0, false
}

// ChatID returns the chat the update was posted in, falling back to the sender
// for private exchanges without chat information (callbacks, inline queries).
func (u *Update) ChatID() int64 {
	if u == nil {
		return 0
	}
	if u.Chat != nil && u.Chat.ID != 0 {
		return u.Chat.ID
	}
	if u.From != nil {
		return u.From.ID
	}
	return 0
}

// IsText reports whether the update is a plain text message.
func (u *Update) IsText() bool {
	return u != nil && u.Kind == KindMessage && u.Content == ContentText && u.Text != ""
}

// IsCommand reports whether the update is a text message starting with the
// given bot command (e.g. "/start"), optionally addressed as "/start@bot".
func (u *Update) IsCommand(name string) bool {
	if !u.IsText() {
		return false
	}
	head, _, _ := strings.Cut(u.Text, " ")
	head, _, _ = strings.Cut(head, "@")
	return head == "/"+strings.TrimPrefix(name, "/")
}

// String renders a compact one-line description for logs.
func (u *Update) String() string {
	if u == nil {
		return "<nil update>"
	}
	name := ""
	switch {
	case u.From != nil && u.From.Username != "":
		name = u.From.Username
	case u.Chat != nil && u.Chat.Title != "":
		name = u.Chat.Title
	case u.From != nil:
		name = fmt.Sprintf("%d", u.From.ID)
	}
	kind := string(u.Kind)
	if u.Content != ContentNone {
		kind += " " + string(u.Content)
	}
	return fmt.Sprintf("%s | %s %s", kind, name, u.Text)
}
