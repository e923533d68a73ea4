package core

import (
	"fmt"
	"strings"
)

// Helper is one pseudo-mnemonic rewrite: the real command it stands for,
// plus an operand template with positional {i} slots. A template may use
// the same slot more than once.
type Helper struct {
	Command  string
	Template string
}

// ExpandHelpers rewrites every card whose command is in the helper table,
// substituting the card's comma-separated operand tokens into the template.
// This just does string replacement, once, in source order, before pass 1
// sees any card; a helper cannot expand into another helper.
func ExpandHelpers(cards []*Card, helpers map[string]Helper) {
	for _, c := range cards {
		h, ok := helpers[c.Mnemonic()]
		if !ok {
			continue
		}
		text := h.Template
		for i, arg := range SplitOperands(c.Argument) {
			text = strings.ReplaceAll(text, fmt.Sprintf("{%d}", i), arg)
		}
		c.Command = h.Command
		c.Argument = text
	}
}
