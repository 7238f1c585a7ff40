package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/presentation/graph"
	"github.com/AskoldMakaruk/TelegramBotCore/internal/presentation/tui"
)

// ErrBrokenCatalog is returned by Check when some command was disabled.
var ErrBrokenCatalog = errors.New("catalog has disabled providers")

// Graph writes the requirement graph of the bundled commands as Mermaid.
func Graph(w io.Writer) error {
	cat, err := NewCatalog()
	if err != nil {
		return err
	}
	_ = cat.Seal() // disabled providers are part of the picture
	_, err = fmt.Fprint(w, graph.GenerateMermaid(cat.Graph()))
	return err
}

// Check writes the registration diagnostics of the bundled commands.
func Check(w io.Writer) error {
	cat, err := NewCatalog()
	if err != nil {
		return err
	}
	sealErr := cat.Seal()
	if err := tui.Print(w, tui.CatalogReport(cat.Graph())); err != nil {
		return err
	}
	if sealErr != nil {
		return fmt.Errorf("%w: %w", ErrBrokenCatalog, sealErr)
	}
	fmt.Fprintf(w, "\n%s\n", tui.Status(w, true))
	return nil
}
