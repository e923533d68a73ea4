package core

import (
	"strconv"
	"strings"
)

// LocationModule implements the location-counter pseudo-ops. ORIGIN sets
// the counter absolutely; BSS offsets it by a signed amount. Neither emits
// words in place, so both report a relocation, and a relocation to a
// different address starts a new output block.
type LocationModule struct{}

// Mnemonics for LocationModule.
func (m *LocationModule) Mnemonics() []string {
	return []string{"BSS", "ORIGIN"}
}

// Size for LocationModule: the counter moves identically in both passes.
func (m *LocationModule) Size(c *Card, pc int) (Effect, error) {
	return m.effect(c, pc)
}

// Encode for LocationModule.
func (m *LocationModule) Encode(c *Card, s *AssemblyState) (Effect, error) {
	return m.effect(c, s.Index())
}

// The operand must be a plain literal. A symbol here could be a forward
// reference, which pass 1 cannot resolve.
func (m *LocationModule) effect(c *Card, pc int) (Effect, error) {
	n, err := ParseLiteral(strings.TrimSpace(c.Argument))
	if err != nil {
		return Effect{}, err
	}
	if c.Mnemonic() == "BSS" {
		return Relocate(pc + int(n)), nil
	}
	return Relocate(int(n)), nil
}

// ParseLiteral reads a signed numeric literal. A leading 0 after any sign
// selects octal; any other leading digit means decimal.
func ParseLiteral(tok string) (int64, error) {
	if tok == "" {
		return 0, Errf(SyntaxError, "missing numeric literal")
	}
	base := 10
	if strings.HasPrefix(strings.TrimPrefix(tok, "-"), "0") {
		base = 8
	}
	v, err := strconv.ParseInt(tok, base, 64)
	if err != nil {
		return 0, Errf(SyntaxError, "bad numeric literal '%s'", tok)
	}
	return v, nil
}
