package orcir

// Instruction is a fixed-shape tuple over the variable table: a bound
// opcode, up to 2 dest slot indices, and up to 4 src slot indices.
// Unused slots (where the opcode declares size 0) hold unusedSlot.
type Instruction struct {
	Op   *StaticOpcode
	Dest [2]int
	Src  [4]int

	// Rule is populated by the rule binder (spec §4.4).
	Rule *Rule

	// LoadDest is set by the liveness rewriter when a src slot resolves
	// to a DEST-kind variable, forcing the backend to read the
	// destination back (spec §4.5).
	LoadDest bool
}

// NewInstruction builds an instruction with all slots defaulted to
// unusedSlot, ready to have its declared slots filled in.
func NewInstruction(op *StaticOpcode) *Instruction {
	insn := &Instruction{Op: op}
	insn.Dest[0], insn.Dest[1] = unusedSlot, unusedSlot
	insn.Src[0], insn.Src[1], insn.Src[2], insn.Src[3] = unusedSlot, unusedSlot, unusedSlot, unusedSlot
	return insn
}

// DestVars returns the declared dest variable indices, in slot order.
func (i *Instruction) DestVars() []int {
	var out []int
	for s := 0; s < 2; s++ {
		if i.Op.DestSize[s] != 0 {
			out = append(out, i.Dest[s])
		}
	}
	return out
}

// SrcVars returns the declared src variable indices, in slot order.
func (i *Instruction) SrcVars() []int {
	var out []int
	for s := 0; s < 4; s++ {
		if i.Op.SrcSize[s] != 0 {
			out = append(out, i.Src[s])
		}
	}
	return out
}
