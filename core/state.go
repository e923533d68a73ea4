package core

// WordMask is the architecture word width: 36 bits. Encoders build words in
// a uint64 and every emitted word is masked down to this.
const WordMask = (uint64(1) << 36) - 1

// Block is one contiguous run of emitted words sharing a start address,
// bounded by location-counter discontinuities.
type Block struct {
	Start int
	Words []uint64
}

// Image is the discontiguous memory image: blocks in emission order. A
// relocation back to an already used address starts another block there;
// the loader sees both, later words winning.
type Image struct {
	Blocks []*Block
}

func newImage() *Image {
	return &Image{}
}

// open starts a fresh block at the given address.
func (img *Image) open(start int) *Block {
	b := &Block{Start: start}
	img.Blocks = append(img.Blocks, b)
	return b
}

// AssemblyState tracks one assembly run: the symbol table, the location
// counter, and the output image. A fresh state is built per run and owned
// exclusively by the engine.
type AssemblyState struct {
	symbols map[string]int
	pc      int
	image   *Image
	current *Block
}

// NewState builds an empty assembly state.
func NewState() *AssemblyState {
	return &AssemblyState{
		symbols: make(map[string]int),
		image:   newImage(),
	}
}

// rewind resets the location counter for pass 2, keeping the symbol table.
func (s *AssemblyState) rewind() {
	s.pc = 0
	s.current = nil
	s.image = newImage()
}

// Index gives the address the next word would be placed at.
func (s *AssemblyState) Index() int {
	return s.pc
}

// Lookup resolves a label to its address.
func (s *AssemblyState) Lookup(name string) (int, bool) {
	v, ok := s.symbols[name]
	return v, ok
}

// Define binds a label to an address. Labels cannot be redefined: a second
// binding would make forward references resolve differently between passes.
func (s *AssemblyState) Define(name string, addr int) error {
	if _, ok := s.symbols[name]; ok {
		return Errf(SyntaxError, "symbol %s redefined", name)
	}
	s.symbols[name] = addr
	return nil
}

// Push emits one word at the location counter. The first word after a
// relocation opens a block at the new address.
func (s *AssemblyState) Push(w uint64) {
	if s.current == nil {
		s.current = s.image.open(s.pc)
	}
	s.current.Words = append(s.current.Words, w&WordMask)
	s.pc++
}

// MoveTo relocates the location counter. Moving to the current address is
// not a discontinuity; anything else closes the open block.
func (s *AssemblyState) MoveTo(target int) {
	if target == s.pc {
		return
	}
	s.pc = target
	s.current = nil
}
