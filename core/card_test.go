package core

import (
	"fmt"
	"testing"
)

func makeLine(symbol, command, argument, comment, number string) string {
	return fmt.Sprintf("%-8s %-8s%-31s%-24s%-8s", symbol, command, argument, comment, number)
}

func expectCard(t *testing.T, line string, want *Card) {
	t.Helper()
	got := ParseCard(line)
	if got.Symbol != want.Symbol {
		t.Errorf("symbol: wanted '%s', got '%s'", want.Symbol, got.Symbol)
	}
	if got.Command != want.Command {
		t.Errorf("command: wanted '%s', got '%s'", want.Command, got.Command)
	}
	if got.Argument != want.Argument {
		t.Errorf("argument: wanted '%s', got '%s'", want.Argument, got.Argument)
	}
	if got.Comment != want.Comment {
		t.Errorf("comment: wanted '%s', got '%s'", want.Comment, got.Comment)
	}
	if got.Number != want.Number {
		t.Errorf("number: wanted '%s', got '%s'", want.Number, got.Number)
	}
}

func TestCardFields(t *testing.T) {
	expectCard(t,
		makeLine("LABEL008", "ADD", "0,7,M(3)", "This is the comment", "00001020"),
		&Card{
			Symbol:   "LABEL008",
			Command:  "ADD",
			Argument: "0,7,M(3)",
			Comment:  "This is the comment",
			Number:   "00001020",
		})
}

func TestCommentCard(t *testing.T) {
	line := "        * A longer comment blah blah blah"
	line = fmt.Sprintf("%-72s%-8s", line, "00001000")
	expectCard(t, line, &Card{
		Comment: "A longer comment blah blah blah",
		Number:  "00001000",
	})
}

func TestShortAndLongLines(t *testing.T) {
	// A short line pads out to empty fields.
	expectCard(t, "", &Card{})
	expectCard(t, "START", &Card{Symbol: "START"})

	// A long line is truncated at 80 columns.
	long := makeLine("", "HLT", "", "", "00000010") + "overflow"
	expectCard(t, long, &Card{Command: "HLT", Number: "00000010"})
}

func TestSplitOperands(t *testing.T) {
	if got := SplitOperands(""); got != nil {
		t.Errorf("wanted no tokens for empty field, got %v", got)
	}
	got := SplitOperands(" 3, 7 ,M(1)")
	want := []string{"3", "7", "M(1)"}
	if len(got) != len(want) {
		t.Fatalf("wanted %d tokens, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: wanted '%s', got '%s'", i, want[i], got[i])
		}
	}
}
