package tui

import (
	"fmt"
	"strings"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
)

// CatalogReport renders the registration diagnostics as markdown.
func CatalogReport(nodes []resolve.Node) string {
	var sb strings.Builder
	var commands, validators, broken int
	for _, n := range nodes {
		if n.Kind == resolve.NodeValidator {
			validators++
		} else {
			commands++
		}
		if n.Err != nil {
			broken++
		}
	}

	sb.WriteString("# Catalog\n\n")
	fmt.Fprintf(&sb, "%d commands, %d validators, %d disabled.\n\n", commands, validators, broken)

	sb.WriteString("| Provider | Kind | Variant | Inputs | Status |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, n := range nodes {
		variant := n.Variant.String()
		if n.Kind == resolve.NodeValidator {
			variant = "-"
		}
		status := "ok"
		if n.Err != nil {
			status = "disabled"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %s |\n",
			n.Name, n.Kind, variant, inputs(n.Inputs), status)
	}

	if broken > 0 {
		sb.WriteString("\n## Problems\n\n")
		for _, n := range nodes {
			if n.Err != nil {
				fmt.Fprintf(&sb, "- `%s`: %v\n", n.Name, n.Err)
			}
		}
	}
	return sb.String()
}

func inputs(in []string) string {
	if len(in) == 0 {
		return "-"
	}
	quoted := make([]string, len(in))
	for i, s := range in {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}
