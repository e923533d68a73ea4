package ist

import (
	"testing"

	"github.com/vmlinuz719/ist66/core"
)

func addrState(t *testing.T, pc int, symbols map[string]int) *core.AssemblyState {
	t.Helper()
	s := core.NewState()
	for name, v := range symbols {
		if err := s.Define(name, v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	s.MoveTo(pc)
	return s
}

func expectAddr(t *testing.T, input string, s *core.AssemblyState, want uint64) {
	t.Helper()
	got, err := parseAddress(input, s)
	if err != nil {
		t.Errorf("unexpected error for '%s': %v", input, err)
		return
	}
	if got != want {
		t.Errorf("address '%s': wanted %09o, got %09o", input, want, got)
	}
}

func expectAddrError(t *testing.T, input string, s *core.AssemblyState, kind core.ErrorKind) {
	t.Helper()
	_, err := parseAddress(input, s)
	if err == nil {
		t.Errorf("wanted an error for '%s'", input)
		return
	}
	if e, ok := err.(*core.Error); !ok || e.Kind != kind {
		t.Errorf("address '%s': wrong error kind: %v", input, err)
	}
}

func TestAbsoluteAddresses(t *testing.T) {
	s := addrState(t, 0, nil)
	expectAddr(t, "123", s, 123)
	expectAddr(t, "0123", s, 0123)
	expectAddr(t, "-1", s, 0777777)
	expectAddr(t, "-0", s, 0)
	// Negative literals wrap modulo 2^18.
	expectAddr(t, "-3", s, (1<<18)-3)
}

func TestAddressModes(t *testing.T) {
	s := addrState(t, 0, nil)
	expectAddr(t, "_5", s, 1<<18|5)
	expectAddr(t, "100(4)", s, 4<<18|100)
	// The closing parenthesis is optional on cards.
	expectAddr(t, "100(4", s, 4<<18|100)
	expectAddr(t, "5+", s, 14<<18|5)
	expectAddr(t, "5-", s, 15<<18|5)
}

func TestIndirect(t *testing.T) {
	s := addrState(t, 0, nil)
	expectAddr(t, "@100", s, 1<<22|100)
	expectAddr(t, "@_5", s, 1<<22|1<<18|5)
	expectAddr(t, "@7(13)", s, 1<<22|13<<18|7)
}

func TestSymbolicAddresses(t *testing.T) {
	s := addrState(t, 0, map[string]int{"TABLE": 0100})
	expectAddr(t, "TABLE", s, 0100)
	expectAddr(t, "@TABLE", s, 1<<22|0100)
	expectAddr(t, "TABLE(4)", s, 4<<18|0100)
}

func TestPCRelative(t *testing.T) {
	// A label at P referenced pc-relatively from Q gives (P-Q) mod 2^18.
	s := addrState(t, 300, map[string]int{"L": 200})
	expectAddr(t, ".L", s, 2<<18|((200-300)&dispMask))

	s = addrState(t, 100, map[string]int{"L": 200})
	expectAddr(t, ".L", s, 2<<18|100)

	// Literals are relative too.
	expectAddr(t, ".150", s, 2<<18|50)
}

func TestAddressErrors(t *testing.T) {
	s := addrState(t, 0, nil)
	expectAddrError(t, "100(20)", s, core.InvalidIndexRegister)
	expectAddrError(t, "100(2)", s, core.InvalidIndexRegister)
	expectAddrError(t, "100(14", s, core.InvalidIndexRegister)
	expectAddrError(t, "NOWHERE", s, core.UndefinedSymbol)
	expectAddrError(t, "", s, core.SyntaxError)
	expectAddrError(t, "_5+", s, core.SyntaxError)
	expectAddrError(t, "089", s, core.SyntaxError)
}
