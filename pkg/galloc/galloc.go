// Package galloc assigns fixed-lifetime registers: pointer registers
// for SRC/DEST, data registers for CONST/PARAM/ACCUMULATOR, optional
// masking helpers, and an optional loop counter (spec §4.6).
package galloc

import (
	"github.com/GriffinCanCode/orc-go/pkg/logger"
	"github.com/GriffinCanCode/orc-go/pkg/orcir"
	"github.com/GriffinCanCode/orc-go/pkg/regfile"
)

// Allocate visits every occupied variable in st.Vars and assigns its
// fixed-lifetime register(s), then allocates a loop-counter register
// into st.LoopCounterReg if the target requests one.
func Allocate(st *orcir.TargetState) error {
	for _, v := range st.Vars.All() {
		if v == nil {
			continue
		}
		if err := allocateOne(v, st); err != nil {
			return err
		}
	}

	if st.Target.NeedLoopCounter() {
		reg, err := st.RF.Allocate(regfile.ClassGP)
		if err != nil {
			if st.Target.TolerateLoopCounterOverflow() {
				logger.LogWarning("GlobalAllocator", "no register left for loop counter, target tolerates overflow")
				return nil
			}
			return orcir.NewCompileError(orcir.ResultUnknownCompile, "global alloc: loop counter: %v", err)
		}
		st.LoopCounterReg = reg
	}
	return nil
}

func allocateOne(v *orcir.Variable, st *orcir.TargetState) error {
	rf := st.RF
	target := st.Target

	switch v.Kind {
	case orcir.KindConst:
		// CONST carries a known compile-time value, so its register
		// comes from the constant pool: identical values across
		// multiple CONST variables share one materialized register
		// (spec §4.8).
		v.FirstUse = orcir.GlobalLifetime
		v.LastUse = orcir.GlobalLifetime
		reg, err := st.GetConstant(v.Size, v.Value)
		if err != nil {
			return orcir.NewCompileError(orcir.ResultUnknownCompile, "global alloc: %q: %v", v.Name, err)
		}
		v.Alloc = reg

	case orcir.KindParam, orcir.KindAccumulator:
		// PARAM (a runtime argument) and ACCUMULATOR (cross-iteration
		// state) have no compile-time value to materialize, so they get
		// a plain register rather than routing through the constant pool.
		v.FirstUse = orcir.GlobalLifetime
		v.LastUse = orcir.GlobalLifetime
		reg, err := rf.Allocate(regfile.ClassData)
		if err != nil {
			return orcir.NewCompileError(orcir.ResultUnknownCompile, "global alloc: %q: %v", v.Name, err)
		}
		v.Alloc = reg

	case orcir.KindSrc:
		ptr, err := rf.Allocate(regfile.ClassGP)
		if err != nil {
			return orcir.NewCompileError(orcir.ResultUnknownCompile, "global alloc: %q ptr: %v", v.Name, err)
		}
		v.PtrRegister = ptr

		if target.NeedMaskRegs() {
			mask, err := rf.Allocate(regfile.ClassData)
			if err != nil {
				return orcir.NewCompileError(orcir.ResultUnknownCompile, "global alloc: %q mask: %v", v.Name, err)
			}
			v.MaskAlloc = mask

			off, err := rf.Allocate(regfile.ClassGP)
			if err != nil {
				return orcir.NewCompileError(orcir.ResultUnknownCompile, "global alloc: %q offset: %v", v.Name, err)
			}
			v.PtrOffset = off

			aligned, err := rf.Allocate(regfile.ClassData)
			if err != nil {
				return orcir.NewCompileError(orcir.ResultUnknownCompile, "global alloc: %q aligned: %v", v.Name, err)
			}
			v.AlignedData = aligned
		}

	case orcir.KindDest:
		ptr, err := rf.Allocate(regfile.ClassGP)
		if err != nil {
			return orcir.NewCompileError(orcir.ResultUnknownCompile, "global alloc: %q ptr: %v", v.Name, err)
		}
		v.PtrRegister = ptr

	case orcir.KindTemp:
		// Allocated locally by the per-instruction walk.

	default:
		return orcir.NewCompileError(orcir.ResultUnknownParse, "global alloc: %q has unrecognized kind %s", v.Name, v.Kind)
	}
	return nil
}
