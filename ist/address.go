package ist

import (
	"strings"

	"github.com/vmlinuz719/ist66/core"
)

// Addressing modes as they appear in bits [18,22) of the address field.
// Modes 3 through 13 are "indexed by that register".
const (
	modeAbsolute = 0
	modeDirect   = 1
	modePCRel    = 2
	modePostInc  = 14
	modePreDec   = 15
)

const dispMask = (1 << 18) - 1

// operand is a literal-or-symbol value, resolved against the symbol table
// at encode time.
type operand struct {
	symbol string
	value  int64
}

func (o *operand) resolve(s *core.AssemblyState) (int64, error) {
	if o.symbol == "" {
		return o.value, nil
	}
	v, ok := s.Lookup(o.symbol)
	if !ok {
		return 0, core.Errf(core.UndefinedSymbol, "undefined symbol %s", o.symbol)
	}
	return int64(v), nil
}

// address is one parsed address operand: an indirect flag, a mode, and a
// displacement still to be resolved.
type address struct {
	indirect bool
	mode     int
	index    int
	indexed  bool
	target   *operand
}

// resolve composes the 23-bit address field: displacement in [0,18), mode
// in [18,22), indirect at bit 22. PC-relative displacements are taken from
// the location counter at the moment of encoding.
func (a *address) resolve(s *core.AssemblyState) (uint64, error) {
	mode := a.mode
	if a.indexed {
		if a.index < 3 || a.index > 13 {
			return 0, core.Errf(core.InvalidIndexRegister, "no such index register %d", a.index)
		}
		mode = a.index
	}

	v, err := a.target.resolve(s)
	if err != nil {
		return 0, err
	}
	if a.mode == modePCRel {
		v -= int64(s.Index())
	}

	field := uint64(mode)<<18 | uint64(v)&dispMask
	if a.indirect {
		field |= 1 << 22
	}
	return field, nil
}

// parseAddressExpr parses one address operand without resolving it.
func parseAddressExpr(arg string) (*address, error) {
	r, err := operands.ParseStringWith("operand", strings.TrimSpace(arg), "address")
	if err != nil {
		return nil, core.Errf(core.SyntaxError, "bad address '%s': %v", arg, err)
	}
	return r.(*address), nil
}

// parseAddress parses and resolves one address operand in a single step.
func parseAddress(arg string, s *core.AssemblyState) (uint64, error) {
	a, err := parseAddressExpr(arg)
	if err != nil {
		return 0, err
	}
	return a.resolve(s)
}

// parseTerm parses one literal-or-symbol token, as used by DW.
func parseTerm(tok string) (*operand, error) {
	r, err := operands.ParseStringWith("operand", strings.TrimSpace(tok), "term")
	if err != nil {
		return nil, core.Errf(core.SyntaxError, "bad value '%s': %v", tok, err)
	}
	return r.(*operand), nil
}
