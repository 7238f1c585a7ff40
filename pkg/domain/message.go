package domain

// MessageKind identifies the concrete type of an output Message.
type MessageKind string

const (
	MessageText           MessageKind = "text"
	MessageEditText       MessageKind = "edit_text"
	MessageEditMarkup     MessageKind = "edit_markup"
	MessageAnswerCallback MessageKind = "answer_callback"
	MessageDocument       MessageKind = "document"
	MessagePhoto          MessageKind = "photo"
	MessageSticker        MessageKind = "sticker"
)

// ParseMode selects how the platform formats message text.
type ParseMode string

const (
	ParseModeNone       ParseMode = ""
	ParseModeMarkdown   ParseMode = "Markdown"
	ParseModeMarkdownV2 ParseMode = "MarkdownV2"
	ParseModeHTML       ParseMode = "HTML"
)

// Message is an output payload produced by a command.
// The core forwards messages untouched; transports interpret them.
type Message interface {
	MessageKind() MessageKind
}

// Button is one key of a Keyboard.
// Inline keyboards use Data or URL; reply keyboards only use Text.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Keyboard is a grid of buttons attached to a message.
type Keyboard struct {
	Inline bool       `json:"inline"`
	Rows   [][]Button `json:"rows"`
	// Remove asks the client to hide a previously shown reply keyboard.
	Remove bool `json:"remove,omitempty"`
}

// Contains reports whether text equals the label of one of the buttons.
func (k *Keyboard) Contains(text string) bool {
	if k == nil {
		return false
	}
	for _, row := range k.Rows {
		for _, b := range row {
			if b.Text == text {
				return true
			}
		}
	}
	return false
}

// File references an uploadable payload: either an existing file id/URL or raw bytes.
type File struct {
	ID    string `json:"id,omitempty"`
	URL   string `json:"url,omitempty"`
	Name  string `json:"name,omitempty"`
	Bytes []byte `json:"-"`
}

type TextMessage struct {
	ChatID                int64
	Text                  string
	ParseMode             ParseMode
	ReplyToMessageID      int
	DisableWebPagePreview bool
	DisableNotification   bool
	Keyboard              *Keyboard
}

func (TextMessage) MessageKind() MessageKind { return MessageText }

type EditText struct {
	ChatID    int64
	MessageID int
	Text      string
	ParseMode ParseMode
	Keyboard  *Keyboard
}

func (EditText) MessageKind() MessageKind { return MessageEditText }

type EditMarkup struct {
	ChatID    int64
	MessageID int
	Keyboard  *Keyboard
}

func (EditMarkup) MessageKind() MessageKind { return MessageEditMarkup }

type AnswerCallback struct {
	CallbackID string
	Text       string
	ShowAlert  bool
}

func (AnswerCallback) MessageKind() MessageKind { return MessageAnswerCallback }

type Document struct {
	ChatID           int64
	File             File
	Caption          string
	ReplyToMessageID int
	Keyboard         *Keyboard
}

func (Document) MessageKind() MessageKind { return MessageDocument }

type Photo struct {
	ChatID           int64
	File             File
	Caption          string
	ReplyToMessageID int
	Keyboard         *Keyboard
}

func (Photo) MessageKind() MessageKind { return MessagePhoto }

type Sticker struct {
	ChatID int64
	File   File
}

func (Sticker) MessageKind() MessageKind { return MessageSticker }

// Text is a shorthand for a plain TextMessage.
func Text(chatID int64, text string) TextMessage {
	return TextMessage{ChatID: chatID, Text: text}
}
