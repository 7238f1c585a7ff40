package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
)

// GenerateMermaid produces a Mermaid flowchart of the requirement graph.
// It applies semantic styling:
// - Engine inputs (Update, Client): ((Circle))
// - Validators: {{Hexagon}}
// - Start commands: ([Stadium])
// - Continuations: [/Parallelogram/]
// - Static commands: [Rectangle]
// Edges point from a requirement to the provider consuming it. Disabled
// providers are styled as broken.
func GenerateMermaid(nodes []resolve.Node) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.Name] = true
	}

	leaves := make(map[string]bool)
	var broken []string
	for _, n := range nodes {
		id := sanitizeMermaidID(n.Name)

		opener, closer := "[", "]"
		switch {
		case n.Kind == resolve.NodeValidator:
			opener, closer = "{{", "}}"
		case n.Variant == domain.VariantStart:
			opener, closer = "([", "])"
		case n.Variant == domain.VariantContinuation:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escape(n.Name), closer)

		for _, in := range n.Inputs {
			if !known[in] {
				leaves[in] = true
			}
			fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(in), id)
		}
		if n.Err != nil {
			broken = append(broken, id)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(leaves)) {
		fmt.Fprintf(&sb, "    %s((\"%s\"))\n", sanitizeMermaidID(name), escape(name))
	}

	if len(broken) > 0 {
		sb.WriteString("\n    classDef broken fill:#ffcdd2,stroke:#c62828,stroke-width:2px,color:#000;\n")
		for _, id := range broken {
			fmt.Fprintf(&sb, "    class %s broken;\n", id)
		}
	}
	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", "*", "ptr_", "[", "_", "]", "_", " ", "_")
	return r.Replace(id)
}
