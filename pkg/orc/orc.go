// Package orc drives the fixed-order compilation pipeline: Validator,
// RuleBinder, LivenessRewriter, GlobalAllocator, LocalAllocator, code
// memory allocation, and the backend's own Compile (spec §4.9).
package orc

import (
	"github.com/GriffinCanCode/orc-go/pkg/constpool"
	"github.com/GriffinCanCode/orc-go/pkg/galloc"
	"github.com/GriffinCanCode/orc-go/pkg/lalloc"
	"github.com/GriffinCanCode/orc-go/pkg/liveness"
	"github.com/GriffinCanCode/orc-go/pkg/logger"
	"github.com/GriffinCanCode/orc-go/pkg/orcflags"
	"github.com/GriffinCanCode/orc-go/pkg/orcir"
	"github.com/GriffinCanCode/orc-go/pkg/rulebind"
	"github.com/GriffinCanCode/orc-go/pkg/validate"
)

// initialValidRegs is how many registers starting at 0 are marked
// valid before the backend's own CompilerInit narrows or extends the
// set (spec §4.9 step 1).
const initialValidRegs = 32

// Compile runs the full pipeline for prog against target using the
// target's own default configuration string.
func Compile(prog *orcir.Program, target orcir.Target) (orcir.Result, error) {
	return CompileFull(prog, target, target.DefaultFlags())
}

// CompileForTarget is an alias for Compile kept for call sites that
// want to name the target explicitly alongside a program built for it.
func CompileForTarget(prog *orcir.Program, target orcir.Target) (orcir.Result, error) {
	return Compile(prog, target)
}

// CompileFull runs the full pipeline for prog against target, using
// flagsCfg as the single configuration string (spec §4.1/§4.9).
//
// CompileFull copies prog's variables and instructions into fresh
// working state, so they are never mutated in place. prog.Runnable is
// set before the phases run; the other results are published back onto
// prog only after a successful run.
func CompileFull(prog *orcir.Program, target orcir.Target, flagsCfg string) (orcir.Result, error) {
	flags := orcflags.New(flagsCfg)

	if flags.Backup() && prog.Backup != nil {
		return orcir.ResultUnknownCompile, orcir.NewCompileError(orcir.ResultUnknownCompile,
			"compilation refused: backup flag set and program already carries a backup function")
	}

	vars := orcir.NewVarTable(cloneVars(prog.Vars))
	insns := cloneInsns(prog.Insns)

	st := orcir.NewTargetState(target, vars, insns, flags)
	for i := 0; i < initialValidRegs; i++ {
		st.RF.MarkValid(i)
	}

	if prog.Backup != nil {
		prog.Runnable = prog.Backup
	} else {
		prog.Runnable = prog.Emulator
	}

	logger.LogCompilerStart(target.Name())

	if err := runPhase(st, "CompilerInit", target.CompilerInit); err != nil {
		return fail(st, orcir.ResultUnknownCompile, err)
	}

	if err := runPhase(st, "Validator", func(st *orcir.TargetState) error {
		return validate.Validate(st.Insns, st.Vars)
	}); err != nil {
		return fail(st, orcir.ResultUnknownParse, err)
	}

	if err := runPhase(st, "RuleBinder", func(st *orcir.TargetState) error {
		return rulebind.Bind(st.Insns, target)
	}); err != nil {
		return fail(st, orcir.ResultUnknownCompile, err)
	}

	preDupVars := st.Vars.Len()
	if err := runPhase(st, "LivenessRewriter", func(st *orcir.TargetState) error {
		return liveness.Rewrite(st.Insns, st.Vars)
	}); err != nil {
		return fail(st, orcir.ResultUnknownParse, err)
	}
	logger.LogLiveness(len(st.Insns), st.Vars.Len()-preDupVars)

	if err := runPhase(st, "GlobalAllocator", galloc.Allocate); err != nil {
		return fail(st, orcir.ResultUnknownCompile, err)
	}
	logger.LogGlobalAlloc(st.Vars.Len(), st.LoopCounterReg != 0)
	logger.LogConstantPool(len(st.Pool.Entries()), totalUses(st.Pool.Entries()))

	if err := runPhase(st, "LocalAllocator", func(st *orcir.TargetState) error {
		return lalloc.Allocate(st.Insns, st.Vars, st.RF)
	}); err != nil {
		return fail(st, orcir.ResultUnknownCompile, err)
	}
	logger.LogLocalAlloc(len(st.Insns), countChained(st))

	if err := runPhase(st, "AllocateCodeMem", target.AllocateCodeMem); err != nil {
		return fail(st, orcir.ResultUnknownCompile, err)
	}
	if err := runPhase(st, "Compile", target.Compile); err != nil {
		_ = target.ReleaseCodeMem(st)
		return fail(st, orcir.ResultUnknownCompile, err)
	}

	prog.AsmCode = st.AsmText()
	prog.Code = st.CodeBase
	prog.CodeSize = len(st.CodeBase)
	prog.Vars = st.Vars.All()
	prog.Insns = st.Insns

	logger.LogCodeGen(target.Name(), len(st.Insns), prog.CodeSize)
	logger.LogCompilerComplete(st.Result.String(), prog.CodeSize)

	if st.Result == orcir.ResultOK {
		return orcir.ResultOK, nil
	}
	return st.Result, nil
}

// runPhase logs a phase's entry and exit around fn, per SPEC_FULL.md's
// "every pipeline phase logs entry/exit" requirement.
func runPhase(st *orcir.TargetState, phase string, fn func(*orcir.TargetState) error) error {
	logger.LogPhase(phase)
	if err := fn(st); err != nil {
		logger.LogError(phase, err)
		return err
	}
	logger.LogPhaseComplete(phase)
	return nil
}

func totalUses(entries []*constpool.Entry) int {
	n := 0
	for _, e := range entries {
		n += e.UseCount
	}
	return n
}

// countChained estimates how many instructions had their dest register
// assigned by reusing a dying src's register, for logging purposes only.
func countChained(st *orcir.TargetState) int {
	n := 0
	for idx, insn := range st.Insns {
		if insn.Op.IsAccumulator() || insn.Op.DestSize[1] != 0 {
			continue
		}
		dest := st.Vars.At(insn.Dest[0])
		if dest == nil {
			continue
		}
		for slot, size := range insn.Op.SrcSize {
			if size == 0 {
				continue
			}
			src := st.Vars.At(insn.Src[slot])
			if src != nil && src.LastUse == idx && src.Alloc == dest.Alloc {
				n++
				break
			}
		}
	}
	return n
}

func fail(st *orcir.TargetState, result orcir.Result, err error) (orcir.Result, error) {
	ce, ok := err.(*orcir.CompileError)
	if !ok {
		ce = orcir.NewCompileError(result, "%v", err)
	}
	st.SetError(ce.Result, "%s", ce.Msg)
	return st.Result, st.Err()
}

func cloneVars(src []*orcir.Variable) []*orcir.Variable {
	out := make([]*orcir.Variable, len(src))
	for i, v := range src {
		if v == nil {
			continue
		}
		cp := *v
		out[i] = &cp
	}
	return out
}

func cloneInsns(src []*orcir.Instruction) []*orcir.Instruction {
	out := make([]*orcir.Instruction, len(src))
	for i, insn := range src {
		if insn == nil {
			continue
		}
		cp := *insn
		out[i] = &cp
	}
	return out
}
