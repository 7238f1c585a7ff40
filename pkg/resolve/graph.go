package resolve

import "github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"

// Node kinds reported by Graph.
const (
	NodeCommand   = "command"
	NodeValidator = "validator"
)

// Node is one provider of the requirement graph, for diagnostics and rendering.
type Node struct {
	Name    string
	Kind    string
	Variant domain.Variant
	Inputs  []string
	// Err is the structural error that disabled the provider, if any.
	Err error
}

// Graph describes every registered provider in registration order.
func (c *Catalog) Graph() []Node {
	c.ensureSealed()
	nodes := make([]Node, 0, len(c.providers))
	for _, p := range c.providers {
		n := Node{
			Name:    p.name(),
			Kind:    NodeCommand,
			Variant: p.variant,
			Err:     c.disabled[p.out],
		}
		if p.kind == kindValidator {
			n.Kind = NodeValidator
		}
		for _, in := range p.in {
			n.Inputs = append(n.Inputs, in.String())
		}
		nodes = append(nodes, n)
	}
	return nodes
}
