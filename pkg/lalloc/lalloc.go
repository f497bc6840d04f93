// Package lalloc performs the single forward pass that chains
// src->dest registers and allocates/frees data registers at each
// variable's first/last use (spec §4.7).
package lalloc

import (
	"github.com/GriffinCanCode/orc-go/pkg/orcir"
	"github.com/GriffinCanCode/orc-go/pkg/regfile"
)

// Allocate walks insns in order, chaining operands where possible and
// otherwise allocating on first use / releasing on last use.
func Allocate(insns []*orcir.Instruction, vars *orcir.VarTable, rf *regfile.RegisterFile) error {
	for idx, insn := range insns {
		chainOperand(idx, insn, vars, rf)

		if err := allocateFirstUse(idx, vars, rf); err != nil {
			return err
		}
		releaseLastUse(idx, vars, rf)
	}
	return nil
}

// chainOperand implements spec §4.7 step 1: a non-accumulator,
// single-dest opcode whose first src dies at this instruction lets the
// dest reuse that src's physical register.
func chainOperand(idx int, insn *orcir.Instruction, vars *orcir.VarTable, rf *regfile.RegisterFile) {
	if insn.Op.IsAccumulator() || insn.Op.DestSize[1] != 0 {
		return
	}
	src := vars.At(insn.Src[0])
	dest := vars.At(insn.Dest[0])
	if src == nil || dest == nil {
		return
	}
	if src.LastUse != idx {
		return
	}

	if src.FirstUse == idx && src.Alloc == 0 {
		reg, err := rf.Allocate(regfile.ClassData)
		if err != nil {
			return
		}
		src.Alloc = reg
	}

	rf.Bump(src.Alloc)
	dest.Alloc = src.Alloc
}

func allocateFirstUse(idx int, vars *orcir.VarTable, rf *regfile.RegisterFile) error {
	for _, v := range vars.All() {
		if v == nil || v.FirstUse != idx || v.Alloc != 0 {
			continue
		}
		reg, err := rf.Allocate(regfile.ClassData)
		if err != nil {
			return orcir.NewCompileError(orcir.ResultUnknownCompile, "local alloc: %q: %v", v.Name, err)
		}
		v.Alloc = reg
	}
	return nil
}

func releaseLastUse(idx int, vars *orcir.VarTable, rf *regfile.RegisterFile) {
	for _, v := range vars.All() {
		if v == nil || v.LastUse != idx {
			continue
		}
		rf.Release(v.Alloc)
	}
}
