package ist

import (
	"strconv"
	"strings"

	"github.com/vmlinuz719/ist66/core"
)

// Instructions come in a handful of fixed shapes, one encoder module per
// shape. Each module owns a mnemonic table; the tables must stay pairwise
// disjoint, which the core registry checks at startup.

func names(table map[string]uint64) []string {
	var ns []string
	for n := range table {
		ns = append(ns, n)
	}
	return ns
}

// parseRegister reads a plain numeric register operand with an inclusive
// upper bound.
func parseRegister(tok string, max int64) (uint64, error) {
	v, err := core.ParseLiteral(tok)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > max {
		return 0, core.Errf(core.InvalidRegister, "no such register %s", tok)
	}
	return uint64(v), nil
}

/** Memory reference: opcode<<23 | address. */

var memRefOps = map[string]uint64{
	"JMP":  0,
	"CALL": 1,
	"ISZ":  2,
	"DSZ":  3,
}

type memRef struct{}

func (m *memRef) Mnemonics() []string { return names(memRefOps) }

func (m *memRef) Size(c *core.Card, pc int) (core.Effect, error) {
	return core.Reserve(1), nil
}

func (m *memRef) Encode(c *core.Card, s *core.AssemblyState) (core.Effect, error) {
	args := core.SplitOperands(c.Argument)
	if len(args) != 1 {
		return core.Effect{}, core.Errf(core.ArityError,
			"%s wants one address, got %d operands", c.Mnemonic(), len(args))
	}
	addr, err := parseAddress(args[0], s)
	if err != nil {
		return core.Effect{}, err
	}
	return core.Emit(memRefOps[c.Mnemonic()]<<23 | addr), nil
}

/** Accumulator-memory: opcode<<27 | ac<<23 | address. */

var accMemOps = map[string]uint64{
	"EDIT":   001,
	"EDSK":   002,
	"MOVEA":  003,
	"ADDEA":  004,
	"ISE":    005,
	"DSE":    006,
	"MOVEAS": 007,
	"LDCOM":  010,
	"LDNEG":  011,
	"LDA":    012,
	"STA":    013,
	"ADCM":   014,
	"SUBM":   015,
	"ADDM":   016,
	"ANDM":   017,
	"ORM":    022,
	"XORM":   026,
}

type accMem struct{}

func (m *accMem) Mnemonics() []string { return names(accMemOps) }

func (m *accMem) Size(c *core.Card, pc int) (core.Effect, error) {
	return core.Reserve(1), nil
}

func (m *accMem) Encode(c *core.Card, s *core.AssemblyState) (core.Effect, error) {
	args := core.SplitOperands(c.Argument)

	// The accumulator defaults to 0 when only an address is given.
	var ac uint64
	var addrTok string
	var err error
	switch len(args) {
	case 1:
		addrTok = args[0]
	case 2:
		if ac, err = parseRegister(args[0], 15); err != nil {
			return core.Effect{}, err
		}
		addrTok = args[1]
	default:
		return core.Effect{}, core.Errf(core.ArityError,
			"%s wants 'addr' or 'ac,addr', got %d operands", c.Mnemonic(), len(args))
	}

	addr, err := parseAddress(addrTok, s)
	if err != nil {
		return core.Effect{}, err
	}
	return core.Emit(accMemOps[c.Mnemonic()]<<27 | ac<<23 | addr), nil
}

/** Accumulator-accumulator ALU class. */

// Opcode bytes: the high nibble lands at bit 32 (keeping bits 33-35 = 7,
// the ALU class; bit 32 doubles as opcode bit 3) and the low three bits at
// bit 20.
var accAccOps = map[string]uint64{
	"COM": 0xE0,
	"NEG": 0xE1,
	"MOV": 0xE2,
	"INC": 0xE3,
	"ADC": 0xE4,
	"SUB": 0xE5,
	"ADD": 0xE6,
	"AND": 0xE7,
	"OR":  0xF2,
	"XOR": 0xF7,
}

// modField is one entry in the modifier table: a bit field OR'ed into the
// word. Flag modifiers carry no value. The fixed offsets never overlap
// each other; stacking the same modifier twice is the programmer's problem.
type modField struct {
	offset uint
	width  uint
	flag   bool
}

var accAccMods = map[string]modField{
	"M":  {offset: 7, width: 7},
	"C":  {offset: 18, width: 2},
	"T":  {offset: 15, width: 3},
	"NL": {offset: 31, width: 1, flag: true},
}

type accAcc struct{}

func (m *accAcc) Mnemonics() []string { return names(accAccOps) }

func (m *accAcc) Size(c *core.Card, pc int) (core.Effect, error) {
	return core.Reserve(1), nil
}

func (m *accAcc) Encode(c *core.Card, s *core.AssemblyState) (core.Effect, error) {
	args := core.SplitOperands(c.Argument)
	if len(args) < 2 {
		return core.Effect{}, core.Errf(core.ArityError,
			"%s wants 'src,tgt[,modifier]*', got %d operands", c.Mnemonic(), len(args))
	}

	src, err := parseRegister(args[0], 15)
	if err != nil {
		return core.Effect{}, err
	}
	tgt, err := parseRegister(args[1], 15)
	if err != nil {
		return core.Effect{}, err
	}

	op := accAccOps[c.Mnemonic()]
	word := (op>>4)<<32 | src<<27 | tgt<<23 | (op&07)<<20

	for _, tok := range args[2:] {
		bits, err := modifierBits(tok)
		if err != nil {
			return core.Effect{}, err
		}
		word |= bits
	}
	return core.Emit(word), nil
}

func modifierBits(tok string) (uint64, error) {
	r, err := operands.ParseStringWith("operand", tok, "modifier")
	if err != nil {
		return 0, core.Errf(core.SyntaxError, "bad modifier '%s': %v", tok, err)
	}
	m := r.(*modifierToken)

	f, ok := accAccMods[m.prefix]
	if !ok {
		return 0, core.Errf(core.UnknownModifier, "unknown modifier %s", m.prefix)
	}
	if f.flag {
		if m.hasValue {
			return 0, core.Errf(core.SyntaxError, "modifier %s takes no value", m.prefix)
		}
		return 1 << f.offset, nil
	}
	if !m.hasValue {
		return 0, core.Errf(core.SyntaxError, "modifier %s needs a value", m.prefix)
	}
	mask := uint64(1)<<f.width - 1
	return (uint64(m.value) & mask) << f.offset, nil
}

/** Byte transfer: opcode<<27 | src<<23 | tgt<<18 | count. */

var byteOps = map[string]uint64{
	"MOVB": 030,
	"CMPB": 031,
}

type byteTransfer struct{}

func (m *byteTransfer) Mnemonics() []string { return names(byteOps) }

func (m *byteTransfer) Size(c *core.Card, pc int) (core.Effect, error) {
	return core.Reserve(1), nil
}

func (m *byteTransfer) Encode(c *core.Card, s *core.AssemblyState) (core.Effect, error) {
	args := core.SplitOperands(c.Argument)
	if len(args) < 2 || len(args) > 3 {
		return core.Effect{}, core.Errf(core.ArityError,
			"%s wants 'src,tgt[,count]', got %d operands", c.Mnemonic(), len(args))
	}

	src, err := parseRegister(args[0], 15)
	if err != nil {
		return core.Effect{}, err
	}
	tgt, err := parseRegister(args[1], 15)
	if err != nil {
		return core.Effect{}, err
	}

	var count uint64
	if len(args) == 3 {
		v, err := core.ParseLiteral(args[2])
		if err != nil {
			return core.Effect{}, err
		}
		if v < 0 || v > 63 {
			return core.Effect{}, core.Errf(core.SyntaxError,
				"byte count %d out of range 0-63", v)
		}
		count = uint64(v)
	}

	return core.Emit(byteOps[c.Mnemonic()]<<27 | src<<23 | tgt<<18 | count), nil
}

/** Zero operand: the mnemonic is the whole instruction. */

var zeroOps = map[string]uint64{
	"HLT":   0600 << 27,
	"RFI":   0602 << 27,
	"RMSK":  0602<<27 | 1,
	"LDMSK": 0602<<27 | 2,
	"STMSK": 0602<<27 | 3,
}

type zeroOp struct{}

func (m *zeroOp) Mnemonics() []string { return names(zeroOps) }

func (m *zeroOp) Size(c *core.Card, pc int) (core.Effect, error) {
	return core.Reserve(1), nil
}

func (m *zeroOp) Encode(c *core.Card, s *core.AssemblyState) (core.Effect, error) {
	if strings.TrimSpace(c.Argument) != "" {
		return core.Effect{}, core.Errf(core.SyntaxError,
			"%s takes no operand, got '%s'", c.Mnemonic(), c.Argument)
	}
	return core.Emit(zeroOps[c.Mnemonic()]), nil
}

/** I/O: class<<27 | opcode<<12 | device. */

const ioClass = uint64(0670) << 27

var ioOps = map[string]uint64{
	"RIO": 0,
	"WIO": 1,
	"SIO": 2,
	"HIO": 3,
	"TIO": 014,
}

type ioOp struct{}

func (m *ioOp) Mnemonics() []string { return names(ioOps) }

func (m *ioOp) Size(c *core.Card, pc int) (core.Effect, error) {
	return core.Reserve(1), nil
}

func (m *ioOp) Encode(c *core.Card, s *core.AssemblyState) (core.Effect, error) {
	mn := c.Mnemonic()
	args := core.SplitOperands(c.Argument)
	word := ioClass | ioOps[mn]<<12

	// The register-transfer forms carry an accumulator and a buffer
	// selector ahead of the device number.
	if strings.HasPrefix(mn, "RI") || strings.HasPrefix(mn, "WI") {
		if len(args) != 3 {
			return core.Effect{}, core.Errf(core.ArityError,
				"%s wants 'ac,buffer,device', got %d operands", mn, len(args))
		}
		ac, err := parseRegister(args[0], 15)
		if err != nil {
			return core.Effect{}, err
		}
		buf, err := parseRegister(args[1], 6)
		if err != nil {
			return core.Effect{}, err
		}
		word |= ac<<23 | buf<<13
		args = args[2:]
	} else if len(args) != 1 {
		return core.Effect{}, core.Errf(core.ArityError,
			"%s wants a device number, got %d operands", mn, len(args))
	}

	dev, err := core.ParseLiteral(args[0])
	if err != nil {
		return core.Effect{}, err
	}
	if dev < 0 || dev > 07777 {
		return core.Effect{}, core.Errf(core.SyntaxError,
			"device number %o out of range 0-7777", dev)
	}
	return core.Emit(word | uint64(dev)), nil
}

/** Data pseudo-ops: DW, USING, ASCII. */

type data struct{}

func (m *data) Mnemonics() []string { return []string{"DW", "USING", "ASCII"} }

func (m *data) Size(c *core.Card, pc int) (core.Effect, error) {
	switch c.Mnemonic() {
	case "DW":
		args := core.SplitOperands(c.Argument)
		if len(args) == 0 {
			return core.Effect{}, core.Errf(core.ArityError, "DW wants at least one value")
		}
		return core.Reserve(len(args)), nil
	case "USING":
		return core.Reserve(1), nil
	default: // ASCII
		codes, err := asciiCodes(c.Argument)
		if err != nil {
			return core.Effect{}, err
		}
		return core.Reserve((len(codes) + 4) / 5), nil
	}
}

func (m *data) Encode(c *core.Card, s *core.AssemblyState) (core.Effect, error) {
	switch c.Mnemonic() {
	case "DW":
		args := core.SplitOperands(c.Argument)
		if len(args) == 0 {
			return core.Effect{}, core.Errf(core.ArityError, "DW wants at least one value")
		}
		words := make([]uint64, 0, len(args))
		for _, tok := range args {
			o, err := parseTerm(tok)
			if err != nil {
				return core.Effect{}, err
			}
			v, err := o.resolve(s)
			if err != nil {
				return core.Effect{}, err
			}
			words = append(words, uint64(v)&core.WordMask)
		}
		return core.Emit(words...), nil

	case "USING":
		word, err := usingWord(c.Argument)
		if err != nil {
			return core.Effect{}, err
		}
		return core.Emit(word), nil

	default: // ASCII
		words, err := asciiWords(c.Argument)
		if err != nil {
			return core.Effect{}, err
		}
		return core.Emit(words...), nil
	}
}

// usingWord builds the register-set bitmap: bit 15-i set for every
// referenced register i, named singly or as an inclusive lo-hi range.
func usingWord(arg string) (uint64, error) {
	list := strings.ReplaceAll(arg, " ", "")
	r, err := operands.ParseStringWith("operand", list, "reg list")
	if err != nil {
		return 0, core.Errf(core.SyntaxError, "bad register list '%s': %v", arg, err)
	}

	var word uint64
	for _, rr := range r.([]regRange) {
		if rr.lo < 0 || rr.hi > 15 {
			return 0, core.Errf(core.BadRegisterRange,
				"register range %d-%d outside 0-15", rr.lo, rr.hi)
		}
		if rr.ranged && rr.lo >= rr.hi {
			return 0, core.Errf(core.BadRegisterRange,
				"bad register range %d-%d", rr.lo, rr.hi)
		}
		for i := rr.lo; i <= rr.hi; i++ {
			word |= 1 << uint(15-i)
		}
	}
	return word, nil
}

// asciiCodes decodes the operand into 7-bit character codes. A backslash
// introduces a three-digit octal escape for one raw code.
func asciiCodes(arg string) ([]uint64, error) {
	var out []uint64
	for i := 0; i < len(arg); {
		if arg[i] == '\\' {
			if i+4 > len(arg) {
				return nil, core.Errf(core.SyntaxError, "truncated escape in '%s'", arg)
			}
			v, err := strconv.ParseUint(arg[i+1:i+4], 8, 16)
			if err != nil {
				return nil, core.Errf(core.SyntaxError, "bad escape in '%s'", arg)
			}
			out = append(out, uint64(v)&0177)
			i += 4
			continue
		}
		out = append(out, uint64(arg[i])&0177)
		i++
	}
	return out, nil
}

// asciiWords packs five codes per word, most significant character first,
// at bit offsets 29, 22, 15, 8, 1. A partial final word is flushed as is.
func asciiWords(arg string) ([]uint64, error) {
	codes, err := asciiCodes(arg)
	if err != nil {
		return nil, err
	}

	offsets := [5]uint{29, 22, 15, 8, 1}
	var words []uint64
	for i, code := range codes {
		if i%5 == 0 {
			words = append(words, 0)
		}
		words[len(words)-1] |= code << offsets[i%5]
	}
	return words, nil
}
