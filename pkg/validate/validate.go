// Package validate checks operand/opcode size agreement before any
// rewriting happens (spec §4.3).
package validate

import "github.com/GriffinCanCode/orc-go/pkg/orcir"

// Validate checks every instruction's declared-size slots against the
// variables they reference, and the SCALAR-flag src-slot rule. It
// mutates nothing; a returned error is always a *orcir.CompileError.
func Validate(insns []*orcir.Instruction, vars *orcir.VarTable) error {
	for idx, insn := range insns {
		if err := validateDest(idx, insn, vars); err != nil {
			return err
		}
		if err := validateSrc(idx, insn, vars); err != nil {
			return err
		}
	}
	return nil
}

func validateDest(idx int, insn *orcir.Instruction, vars *orcir.VarTable) error {
	for slot, size := range insn.Op.DestSize {
		if size == 0 {
			continue
		}
		v := vars.At(insn.Dest[slot])
		if v == nil {
			return orcir.NewCompileError(orcir.ResultUnknownParse,
				"instruction %d: dest slot %d references unknown variable", idx, slot)
		}
		if v.Size != size {
			return orcir.NewCompileError(orcir.ResultUnknownParse,
				"instruction %d: dest %q size %d does not match opcode %q dest size %d",
				idx, v.Name, v.Size, insn.Op.Name, size)
		}
	}
	return nil
}

func validateSrc(idx int, insn *orcir.Instruction, vars *orcir.VarTable) error {
	for slot, size := range insn.Op.SrcSize {
		if size == 0 {
			continue
		}
		v := vars.At(insn.Src[slot])
		if v == nil {
			return orcir.NewCompileError(orcir.ResultUnknownParse,
				"instruction %d: src slot %d references unknown variable", idx, slot)
		}
		if v.Kind != orcir.KindConst && v.Kind != orcir.KindParam && v.Size != size {
			return orcir.NewCompileError(orcir.ResultUnknownParse,
				"instruction %d: src %q size %d does not match opcode %q src size %d",
				idx, v.Name, v.Size, insn.Op.Name, size)
		}
		if insn.Op.IsScalar() && slot > 0 && v.Kind != orcir.KindConst && v.Kind != orcir.KindParam {
			return orcir.NewCompileError(orcir.ResultUnknownParse,
				"instruction %d: scalar opcode %q requires src %d to be CONST or PARAM, got %s",
				idx, insn.Op.Name, slot, v.Kind)
		}
	}
	return nil
}
