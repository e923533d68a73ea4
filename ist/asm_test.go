package ist

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vmlinuz719/ist66/core"
)

// line lays source text out in card columns: label [0,8), mnemonic from
// column 9, operand from column 17.
func line(label, command, argument string) string {
	return fmt.Sprintf("%-8s %-8s%s", label, command, argument)
}

func assembleLines(t *testing.T, lines ...string) *core.Image {
	t.Helper()
	d := &Driver{}
	reg, err := core.NewRegistry(d.Modules()...)
	if err != nil {
		t.Fatalf("unexpected registry error: %v", err)
	}
	cards := core.ParseDeck(lines)
	core.ExpandHelpers(cards, d.Helpers())
	img, err := core.Assemble(cards, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return img
}

func TestRegistryCoversAllModules(t *testing.T) {
	d := &Driver{}
	if _, err := core.NewRegistry(d.Modules()...); err != nil {
		t.Errorf("mnemonic tables overlap: %v", err)
	}
}

func TestForwardReference(t *testing.T) {
	img := assembleLines(t,
		line("", "JMP", "DONE"),
		line("", "HLT", ""),
		line("DONE", "HLT", ""),
	)
	if len(img.Blocks) != 1 {
		t.Fatalf("wanted one block, got %d", len(img.Blocks))
	}
	// DONE sits at address 2.
	if img.Blocks[0].Words[0] != 2 {
		t.Errorf("JMP DONE: wanted %012o, got %012o",
			uint64(2), img.Blocks[0].Words[0])
	}
}

func TestPCRelativeRoundTrip(t *testing.T) {
	img := assembleLines(t,
		line("", "ORIGIN", "100"),
		line("L", "HLT", ""),
		line("", "HLT", ""),
		line("", "JMP", ".L"),
	)
	// L is at 100, the JMP at 102: displacement (100-102) mod 2^18.
	want := uint64(2<<18 | (100-102)&dispMask)
	got := img.Blocks[0].Words[2]
	if got != want {
		t.Errorf("pc-relative: wanted %012o, got %012o", want, got)
	}
}

func TestBlockSplitAndLabels(t *testing.T) {
	img := assembleLines(t,
		line("", "ORIGIN", "200"),
		line("START", "HLT", ""),
		line("", "BSS", "10"),
		line("AFTER", "DW", "START,AFTER"),
	)
	if len(img.Blocks) != 2 {
		t.Fatalf("wanted two blocks, got %d", len(img.Blocks))
	}
	b := img.Blocks[1]
	if b.Start != 211 {
		t.Errorf("second block: wanted start 211, got %d", b.Start)
	}
	if b.Words[0] != 200 || b.Words[1] != 211 {
		t.Errorf("labels: wanted 200 and 211, got %d and %d", b.Words[0], b.Words[1])
	}
}

func TestHelpersAssemble(t *testing.T) {
	img := assembleLines(t,
		line("", "ROT", "3,7"),
		line("", "NOP", ""),
	)
	// ROT 3,7 rewrites to MOV 3,3,M(7).
	wantRot := uint64(0xE)<<32 | uint64(3)<<27 | uint64(3)<<23 |
		uint64(2)<<20 | uint64(7)<<7
	if img.Blocks[0].Words[0] != wantRot {
		t.Errorf("ROT: wanted %012o, got %012o", wantRot, img.Blocks[0].Words[0])
	}
	// NOP rewrites to MOV 0,0,NL.
	wantNop := uint64(0xE)<<32 | uint64(2)<<20 | uint64(1)<<31
	if img.Blocks[0].Words[1] != wantNop {
		t.Errorf("NOP: wanted %012o, got %012o", wantNop, img.Blocks[0].Words[1])
	}
}

func TestCommentAndSequenceCards(t *testing.T) {
	img := assembleLines(t,
		"        * nothing to see here                                           00000010",
		line("", "DW", "1"),
		"",
	)
	if len(img.Blocks) != 1 || len(img.Blocks[0].Words) != 1 {
		t.Errorf("comment and blank cards must not emit words")
	}
}

func TestMasterAssemblerTape(t *testing.T) {
	var out strings.Builder
	lines := []string{
		line("", "ORIGIN", "0100"),
		line("", "DW", "1"),
	}
	if err := core.MasterAssembler(&Driver{}, lines, false, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "000000100     !~\n"
	if out.String() != want {
		t.Errorf("tape: wanted %q, got %q", want, out.String())
	}
}

func TestMasterAssemblerListing(t *testing.T) {
	var out strings.Builder
	lines := []string{
		line("", "ORIGIN", "0100"),
		line("", "DW", "5"),
	}
	if err := core.MasterAssembler(&Driver{}, lines, true, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "000000100 ← 000000000005\n"
	if out.String() != want {
		t.Errorf("listing: wanted %q, got %q", want, out.String())
	}
}

func TestMasterAssemblerWritesNothingOnError(t *testing.T) {
	var out strings.Builder
	lines := []string{
		line("", "DW", "1"),
		line("", "JMP", "NOWHERE"),
	}
	err := core.MasterAssembler(&Driver{}, lines, false, &out)
	if err == nil {
		t.Fatalf("wanted an error for an undefined symbol")
	}
	if out.Len() != 0 {
		t.Errorf("a failed run must not produce output, got %q", out.String())
	}
}
