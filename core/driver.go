package core

import "io"

// Driver hides the target machine behind an interface: the encoder modules
// and the helper table for one fixed architecture.
type Driver interface {
	Modules() []Module
	Helpers() map[string]Helper
}

// MasterAssembler runs the whole pipeline: card parsing, helper expansion,
// both passes, and the chosen serializer. Nothing is written to w unless
// the entire run succeeds.
func MasterAssembler(d Driver, lines []string, listing bool, w io.Writer) error {
	reg, err := NewRegistry(d.Modules()...)
	if err != nil {
		return err
	}

	cards := ParseDeck(lines)
	ExpandHelpers(cards, d.Helpers())

	img, err := Assemble(cards, reg)
	if err != nil {
		return err
	}

	if listing {
		return WriteListing(img, w)
	}
	return WriteTape(img, w)
}

// Assemble drives two sequential passes over the card sequence. Pass 1
// binds every label to the location counter and sizes every command; pass 2
// re-walks the same cards with the complete symbol table and emits words.
// The counter is rebuilt from scratch in pass 2 because pc-relative
// operands need its value at the moment of encoding.
func Assemble(cards []*Card, reg *Registry) (*Image, error) {
	s := NewState()

	for i, c := range cards {
		if c.Symbol != "" {
			if err := s.Define(c.Symbol, s.Index()); err != nil {
				return nil, atCard(i+1, c, err)
			}
		}
		if c.Command == "" {
			continue
		}
		m := reg.Lookup(c.Mnemonic())
		if m == nil {
			return nil, atCard(i+1, c, Errf(SyntaxError, "unknown mnemonic %s", c.Mnemonic()))
		}
		eff, err := m.Size(c, s.Index())
		if err != nil {
			return nil, atCard(i+1, c, err)
		}
		eff.apply(s, false)
	}

	s.rewind()

	for i, c := range cards {
		if c.Command == "" {
			continue
		}
		m := reg.Lookup(c.Mnemonic())
		eff, err := m.Encode(c, s)
		if err != nil {
			return nil, atCard(i+1, c, err)
		}
		eff.apply(s, true)
	}

	return s.image, nil
}
