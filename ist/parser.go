package ist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shepheb/psec"
)

// Wrap the most common parser ops for brevity.
func lit(s string) psec.Parser {
	return psec.Literal(s)
}
func sym(s string) psec.Parser {
	return psec.Symbol(s)
}

// One grammar per process; operand fields are parsed with it piecemeal.
var operands = buildOperandParser()

func buildOperandParser() *psec.Grammar {
	g := psec.NewGrammar()

	g.AddSymbol("digit", psec.Range('0', '9'))
	g.AddSymbol("letterish",
		psec.Alt(psec.Range('a', 'z'), psec.Range('A', 'Z')))

	// A leading 0 (after any sign) selects octal, otherwise decimal.
	g.WithAction("number",
		psec.Seq(psec.Optional(lit("-")), psec.Stringify(psec.Many1(sym("digit")))),
		func(r interface{}, loc *psec.Loc) (interface{}, error) {
			rs := r.([]interface{})
			text := rs[1].(string)
			base := 10
			if strings.HasPrefix(text, "0") {
				base = 8
			}
			v, err := strconv.ParseInt(text, base, 64)
			if err != nil {
				return nil, fmt.Errorf("bad numeric literal '%s'", text)
			}
			if rs[0] != nil {
				v = -v
			}
			return v, nil
		})

	g.WithAction("name",
		psec.Seq(sym("letterish"),
			psec.Stringify(psec.Many(psec.Alt(sym("digit"), sym("letterish"))))),
		func(r interface{}, loc *psec.Loc) (interface{}, error) {
			rs := r.([]interface{})
			return fmt.Sprintf("%c%s", rs[0].(byte), rs[1].(string)), nil
		})

	// A literal or a symbol to look up later.
	g.WithAction("term", psec.Alt(sym("number"), sym("name")),
		func(r interface{}, loc *psec.Loc) (interface{}, error) {
			switch v := r.(type) {
			case int64:
				return &operand{value: v}, nil
			case string:
				return &operand{symbol: v}, nil
			}
			return nil, fmt.Errorf("can't happen: unrecognized term %v", r)
		})

	// Index register suffix; the closing parenthesis is optional on cards.
	g.AddSymbol("index",
		psec.SeqAt(1, lit("("), sym("number"), psec.Optional(lit(")"))))

	g.AddSymbol("suffix", psec.Alt(sym("index"), psec.OneOf("+-")))

	g.WithAction("address",
		psec.Seq(
			psec.Optional(lit("@")),
			psec.Optional(psec.OneOf("_.")),
			sym("term"),
			psec.Optional(sym("suffix"))),
		addressAction)

	// USING operand: single registers and lo-hi ranges.
	g.WithAction("reg range",
		psec.Seq(sym("number"), psec.Optional(psec.SeqAt(1, lit("-"), sym("number")))),
		func(r interface{}, loc *psec.Loc) (interface{}, error) {
			rs := r.([]interface{})
			rr := regRange{lo: rs[0].(int64)}
			rr.hi = rr.lo
			if rs[1] != nil {
				rr.hi = rs[1].(int64)
				rr.ranged = true
			}
			return rr, nil
		})

	g.WithAction("reg list", psec.SepBy(sym("reg range"), lit(",")),
		func(r interface{}, loc *psec.Loc) (interface{}, error) {
			var ranges []regRange
			for _, rr := range r.([]interface{}) {
				ranges = append(ranges, rr.(regRange))
			}
			return ranges, nil
		})

	// ALU modifier token: a short prefix, optionally with a value.
	g.WithAction("modifier",
		psec.Seq(psec.Stringify(psec.Many1(sym("letterish"))),
			psec.Optional(psec.SeqAt(1, lit("("), sym("number"), psec.Optional(lit(")"))))),
		func(r interface{}, loc *psec.Loc) (interface{}, error) {
			rs := r.([]interface{})
			m := &modifierToken{prefix: strings.ToUpper(rs[0].(string))}
			if rs[1] != nil {
				m.value = rs[1].(int64)
				m.hasValue = true
			}
			return m, nil
		})

	return g
}

func addressAction(r interface{}, loc *psec.Loc) (interface{}, error) {
	rs := r.([]interface{})
	a := &address{mode: modeAbsolute, target: rs[2].(*operand)}
	if rs[0] != nil {
		a.indirect = true
	}
	if rs[1] != nil {
		switch rs[1].(byte) {
		case '_':
			a.mode = modeDirect
		case '.':
			a.mode = modePCRel
		}
	}
	if rs[3] != nil {
		if rs[1] != nil {
			return nil, fmt.Errorf("page or pc-relative operand cannot also carry a suffix")
		}
		switch v := rs[3].(type) {
		case int64:
			a.index = int(v)
			a.indexed = true
		case byte:
			if v == '+' {
				a.mode = modePostInc
			} else {
				a.mode = modePreDec
			}
		}
	}
	return a, nil
}

// modifierToken is one parsed ALU modifier, not yet checked against the
// modifier table.
type modifierToken struct {
	prefix   string
	value    int64
	hasValue bool
}

// regRange is one USING list item; a bare register has lo == hi.
type regRange struct {
	lo, hi int64
	ranged bool
}
