package ist

import "github.com/vmlinuz719/ist66/core"

// Driver is the IST-66 target: its encoder modules and helper table.
type Driver struct{}

// Modules lists every encoder family. The location-counter pseudo-ops ride
// along so the registry owns every legal mnemonic.
func (d *Driver) Modules() []core.Module {
	return []core.Module{
		&memRef{},
		&accMem{},
		&accAcc{},
		&byteTransfer{},
		&zeroOp{},
		&ioOp{},
		&data{},
		&core.LocationModule{},
	}
}

// Helper mnemonics rewritten into real instructions before assembly.
var helpers = map[string]core.Helper{
	"NOP":  {Command: "MOV", Template: "0,0,NL"},
	"CLA":  {Command: "XOR", Template: "{0},{0}"},
	"ROT":  {Command: "MOV", Template: "{0},{0},M({1})"},
	"SKZ":  {Command: "MOV", Template: "{0},{0},T(4),NL"},
	"JMPI": {Command: "JMP", Template: "@{0}"},
}

// Helpers for the Driver interface.
func (d *Driver) Helpers() map[string]core.Helper {
	return helpers
}
