package core

import "strings"

// Card is one source line split by column position:
// [0,8) label, column 8 comment marker, [9,17) mnemonic, [17,48) operand,
// [48,72) free comment, [72,80) sequence number.
// Empty fields are empty strings.
type Card struct {
	Symbol   string
	Command  string
	Argument string
	Comment  string
	Number   string
}

// Mnemonic gives the card's upper-cased command field.
func (c *Card) Mnemonic() string {
	return strings.ToUpper(c.Command)
}

// ParseCard splits one raw line into card fields. Short lines are padded to
// 80 columns and long lines truncated there. There is no error path: a
// malformed line just yields empty fields, and whoever needs a non-empty
// field complains later.
func ParseCard(line string) *Card {
	if len(line) > 80 {
		line = line[:80]
	}
	if len(line) < 80 {
		line += strings.Repeat(" ", 80-len(line))
	}

	c := &Card{Symbol: strings.TrimSpace(line[0:8])}

	if line[8] == '*' {
		// Comment card: everything up to the sequence field is free text.
		c.Comment = strings.TrimSpace(line[9:72])
	} else {
		c.Command = strings.TrimSpace(line[9:17])
		c.Argument = strings.TrimSpace(line[17:48])
		c.Comment = strings.TrimSpace(line[48:72])
	}

	c.Number = strings.TrimSpace(line[72:80])
	return c
}

// ParseDeck parses a whole source file, one card per line.
func ParseDeck(lines []string) []*Card {
	cards := make([]*Card, len(lines))
	for i, line := range lines {
		cards[i] = ParseCard(line)
	}
	return cards
}

// SplitOperands splits a comma-separated operand field into trimmed tokens.
// An empty field has no tokens.
func SplitOperands(arg string) []string {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil
	}
	parts := strings.Split(arg, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
