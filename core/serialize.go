package core

import (
	"fmt"
	"io"
	"strings"
)

// WriteTape renders the image as a loader tape: for each block, the start
// address as nine octal digits, then every word as six printable
// characters, one per 6-bit group most significant first, offset into the
// printable range by 32. Blocks are separated by '|' and the tape ends
// with '~'.
func WriteTape(img *Image, w io.Writer) error {
	var tape strings.Builder
	for i, b := range img.Blocks {
		if i > 0 {
			tape.WriteByte('|')
		}
		fmt.Fprintf(&tape, "%09o", b.Start)
		for _, word := range b.Words {
			for shift := 30; shift >= 0; shift -= 6 {
				tape.WriteByte(byte((word>>uint(shift))&077) + 32)
			}
		}
	}
	tape.WriteByte('~')
	tape.WriteByte('\n')
	_, err := io.WriteString(w, tape.String())
	return err
}

// WriteListing renders the image as a memory-initializer listing: one line
// per word, in address order within each block, the word as twelve octal
// digits.
func WriteListing(img *Image, w io.Writer) error {
	for _, b := range img.Blocks {
		addr := b.Start
		for _, word := range b.Words {
			if _, err := fmt.Fprintf(w, "%09o ← %012o\n", addr, word); err != nil {
				return err
			}
			addr++
		}
	}
	return nil
}
