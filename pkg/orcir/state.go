package orcir

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/orc-go/pkg/constpool"
	"github.com/GriffinCanCode/orc-go/pkg/orcflags"
	"github.com/GriffinCanCode/orc-go/pkg/regfile"
)

// maxAsmLen caps a single AppendCode call, mirroring the fixed-size
// line buffers the teacher's codegen packages assemble text into.
const maxAsmLen = 200

// TargetState is the mutable state threaded through one compilation,
// shared by every phase and by the target's own Compile/Rules (spec §6
// "TargetState").
type TargetState struct {
	Target Target
	RF     *regfile.RegisterFile
	Pool   *constpool.Pool
	Vars   *VarTable
	Insns  []*Instruction
	Flags  *orcflags.Flags

	LoopCounterReg int
	TmpReg         int

	CodeBase []byte

	asm strings.Builder

	Result Result
	err    *CompileError
}

// NewTargetState builds a TargetState ready for CompilerInit.
func NewTargetState(target Target, vars *VarTable, insns []*Instruction, flags *orcflags.Flags) *TargetState {
	return &TargetState{
		Target: target,
		RF:     regfile.New(target.DataRegisterOffset()),
		Pool:   constpool.New(),
		Vars:   vars,
		Insns:  insns,
		Flags:  flags,
		Result: ResultOK,
	}
}

// AppendCode appends one formatted line of assembly text, truncating
// to maxAsmLen if the target over-produces (spec §4.9's asm buffer is
// a fixed-capacity text sink in the original; here it's a strings.Builder
// with the same cap enforced per call).
func (st *TargetState) AppendCode(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if len(line) > maxAsmLen {
		line = line[:maxAsmLen]
	}
	st.asm.WriteString(line)
	st.asm.WriteByte('\n')
}

// AsmText returns everything appended via AppendCode so far.
func (st *TargetState) AsmText() string { return st.asm.String() }

// targetLoader adapts Target.LoadConstant (which needs st to emit code)
// to constpool.Loader's narrower signature, so constpool never has to
// import Target and risk a cycle back through orcir.
type targetLoader struct {
	st *TargetState
}

func (l targetLoader) LoadConstant(reg, size int, value int64) error {
	return l.st.Target.LoadConstant(l.st, reg, size, value)
}

// GetConstant returns a register holding value, deduplicating against
// previously materialized constants of the same widened value (spec §4.8).
func (st *TargetState) GetConstant(size int, value int64) (int, error) {
	return st.Pool.Get(st.RF, targetLoader{st: st}, size, value)
}

// SetError records the first compile error. Per spec §4.9's "zero
// result upgrades to UNKNOWN_COMPILE" rule, this goes through
// NewCompileError so a ResultOK caller mistake never silently reports
// success.
func (st *TargetState) SetError(result Result, format string, args ...any) {
	if st.err != nil {
		return
	}
	st.err = NewCompileError(result, format, args...)
	st.Result = st.err.Result
}

// Err returns the first error recorded by SetError, or nil.
func (st *TargetState) Err() *CompileError { return st.err }
