package tui

import (
	"fmt"
	"io"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintBanner outputs the startup banner and the bot account in use.
func PrintBanner(w io.Writer, id domain.BotIdentity, mode string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _           _                       ", "#38bdf8"},
		{" | |__   ___ | |_ ___ ___  _ __ ___   ", "#60a5fa"},
		{" | '_ \\ / _ \\| __/ __/ _ \\| '__/ _ \\  ", "#818cf8"},
		{" | |_) | (_) | || (_| (_) | | |  __/  ", "#a78bfa"},
		{" |_.__/ \\___/ \\__\\___\\___/|_|  \\___|  ", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s @%s (%s)\n\n",
		out.String("Started bot").Bold(),
		id.Username,
		out.String(mode).Faint(),
	)
}

// Status renders a short coloured status word: green when ok, red otherwise.
func Status(w io.Writer, ok bool) string {
	out := termenv.NewOutput(w)
	if ok {
		return out.String("ok").Foreground(out.Color("#22c55e")).String()
	}
	return out.String("broken").Foreground(out.Color("#ef4444")).String()
}
