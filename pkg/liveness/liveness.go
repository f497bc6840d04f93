// Package liveness computes per-variable first/last use, enforces
// dest-slot kind rules, and splits multiply-written temps into
// single-assignment duplicates (spec §4.5).
package liveness

import "github.com/GriffinCanCode/orc-go/pkg/orcir"

// Rewrite walks insns in program order, mutating vars and insns in
// place: resolving replaced variables, recording use ranges, and
// duplicating temps that are written after having already been used.
func Rewrite(insns []*orcir.Instruction, vars *orcir.VarTable) error {
	for idx, insn := range insns {
		if err := rewriteSrc(idx, insn, vars); err != nil {
			return err
		}
		if err := rewriteDest(idx, insn, vars); err != nil {
			return err
		}
	}
	return nil
}

func rewriteSrc(idx int, insn *orcir.Instruction, vars *orcir.VarTable) error {
	for slot, size := range insn.Op.SrcSize {
		if size == 0 {
			continue
		}
		v := vars.At(insn.Src[slot])
		if v == nil {
			return orcir.NewCompileError(orcir.ResultUnknownParse,
				"instruction %d: src slot %d references unknown variable", idx, slot)
		}

		if v.Kind == orcir.KindDest {
			insn.LoadDest = true
		}

		if v.Replaced {
			v = v.Replacement
			insn.Src[slot] = indexOf(vars, v)
		}

		if !v.Used {
			if v.Kind == orcir.KindTemp {
				return orcir.NewCompileError(orcir.ResultUnknownParse,
					"instruction %d: src %q is an uninitialized temp", idx, v.Name)
			}
			v.Used = true
			v.FirstUse = idx
		}
		v.LastUse = idx
	}
	return nil
}

func rewriteDest(idx int, insn *orcir.Instruction, vars *orcir.VarTable) error {
	for slot, size := range insn.Op.DestSize {
		if size == 0 {
			continue
		}
		orig := vars.At(insn.Dest[slot])
		if orig == nil {
			return orcir.NewCompileError(orcir.ResultUnknownParse,
				"instruction %d: dest slot %d references unknown variable", idx, slot)
		}

		switch orig.Kind {
		case orcir.KindSrc, orcir.KindConst, orcir.KindParam:
			return orcir.NewCompileError(orcir.ResultUnknownParse,
				"instruction %d: dest %q has illegal kind %s", idx, orig.Name, orig.Kind)
		}

		isAcc := insn.Op.IsAccumulator()
		if isAcc && orig.Kind != orcir.KindAccumulator {
			return orcir.NewCompileError(orcir.ResultUnknownParse,
				"instruction %d: accumulator opcode %q requires an ACCUMULATOR dest, got %s", idx, insn.Op.Name, orig.Kind)
		}
		if !isAcc && orig.Kind == orcir.KindAccumulator {
			return orcir.NewCompileError(orcir.ResultUnknownParse,
				"instruction %d: non-accumulator opcode %q must not target an ACCUMULATOR dest", idx, insn.Op.Name)
		}

		// v is the variable actually written by this instruction (the
		// current replacement if one exists); orig is the base variable
		// that any new duplicate must be dup'd from and repointed onto,
		// so the replacement chain never grows past depth 1 (spec §9: "a
		// replacement is never itself replaced").
		v := orig
		if v.Replaced {
			v = v.Replacement
			insn.Dest[slot] = indexOf(vars, v)
		}

		switch {
		case !v.Used:
			v.Used = true
			v.FirstUse = idx
			v.LastUse = idx
		case v.Kind == orcir.KindTemp:
			newIdx, nv := vars.AppendDup(orig, idx)
			orig.Replaced = true
			orig.Replacement = nv
			insn.Dest[slot] = newIdx
			nv.Used = true
			nv.FirstUse = idx
			nv.LastUse = idx
		default:
			v.LastUse = idx
		}
	}
	return nil
}

func indexOf(vars *orcir.VarTable, v *orcir.Variable) int {
	idx, _, ok := vars.Lookup(v.Name)
	if !ok {
		return -1
	}
	return idx
}
