package core

import "fmt"

type effectKind int

const (
	effEmit effectKind = iota
	effRelocate
)

// Effect is the outcome of one card on the assembly state: either words
// placed at the location counter, or an absolute relocation of the counter.
// The pc-moving pseudo-ops emit nothing; everything else never relocates.
type Effect struct {
	kind   effectKind
	count  int
	words  []uint64
	target int
}

// Emit places words at the current location counter.
func Emit(words ...uint64) Effect {
	return Effect{kind: effEmit, count: len(words), words: words}
}

// Reserve advances the location counter by n words without carrying the
// words themselves. Pass 1 sizing uses it where the encoding depends on
// symbols that are not resolved yet.
func Reserve(n int) Effect {
	return Effect{kind: effEmit, count: n}
}

// Relocate moves the location counter to an absolute address.
func Relocate(pc int) Effect {
	return Effect{kind: effRelocate, target: pc}
}

// Words gives the emitted words; empty for relocations and pass-1 sizing.
func (e Effect) Words() []uint64 { return e.words }

// Count reports how many words the effect occupies.
func (e Effect) Count() int { return e.count }

func (e Effect) apply(s *AssemblyState, emitting bool) {
	switch e.kind {
	case effEmit:
		if emitting {
			for _, w := range e.words {
				s.Push(w)
			}
		} else {
			s.pc += e.count
		}
	case effRelocate:
		s.MoveTo(e.target)
	}
}

// Module is one encoder family. It owns a fixed mnemonic table and encodes
// any card whose upper-cased command is in that table.
type Module interface {
	// Mnemonics lists every command this module encodes. The registry
	// requires the sets of all modules to be pairwise disjoint.
	Mnemonics() []string
	// Size reports the card's effect on the location counter without
	// consulting the symbol table. Both passes must land on the same
	// addresses, so Size may not depend on anything pass 1 lacks.
	Size(c *Card, pc int) (Effect, error)
	// Encode produces the card's words against the full symbol table.
	// The emitted word count must match what Size reported.
	Encode(c *Card, s *AssemblyState) (Effect, error)
}

// Registry maps each mnemonic to its single owning module.
type Registry struct {
	modules map[string]Module
}

// NewRegistry merges the per-module mnemonic tables. A mnemonic claimed by
// two modules is an error here, at construction, rather than a silent
// double assembly later.
func NewRegistry(modules ...Module) (*Registry, error) {
	r := &Registry{modules: make(map[string]Module)}
	for _, m := range modules {
		for _, name := range m.Mnemonics() {
			if _, ok := r.modules[name]; ok {
				return nil, fmt.Errorf("mnemonic %s registered twice", name)
			}
			r.modules[name] = m
		}
	}
	return r, nil
}

// Lookup finds the module owning a mnemonic, or nil.
func (r *Registry) Lookup(mnemonic string) Module {
	return r.modules[mnemonic]
}
