// Package scalarc is a minimal concrete orcir.Target: a "scalar C"
// reference backend that emits pseudo-assembly text and one
// placeholder opcode byte per instruction into an executable code
// region. Real instruction encoding is an out-of-scope collaborator;
// this backend exists to exercise the compilation core end to end.
package scalarc

import (
	"fmt"

	"github.com/GriffinCanCode/orc-go/pkg/orcir"
	"github.com/GriffinCanCode/orc-go/pkg/regfile"
	"golang.org/x/sys/unix"
)

// Target is the scalarc backend. Interpreted, when true, skips the
// unix.Mmap/Mprotect executable-mapping path and allocates a plain
// byte slice instead, for environments where mapping executable
// memory isn't permitted (e.g. sandboxed test runs).
type Target struct {
	Interpreted bool
}

// New returns a scalarc target that allocates real executable memory.
func New() *Target { return &Target{} }

// NewInterpreted returns a scalarc target that allocates ordinary,
// non-executable memory instead of calling into unix.Mmap/Mprotect.
func NewInterpreted() *Target { return &Target{Interpreted: true} }

func (t *Target) Name() string { return "scalarc" }
func (t *Target) DataRegisterOffset() int { return 32 }
func (t *Target) Executable() bool { return !t.Interpreted }
func (t *Target) NeedMaskRegs() bool { return false }
func (t *Target) NeedLoopCounter() bool { return true }
func (t *Target) TolerateLoopCounterOverflow() bool { return false }
func (t *Target) DefaultFlags() string { return "" }

// CompilerInit marks registers 0..15 valid for both classes and
// requests a tmp register reservation, matching the teacher backends'
// pattern of a flat, generously-sized valid set for a simple target.
func (t *Target) CompilerInit(st *orcir.TargetState) error {
	for i := 0; i < 16; i++ {
		st.RF.MarkValid(i)
		st.RF.MarkValid(st.Target.DataRegisterOffset() + i)
	}
	reg, err := st.RF.Allocate(regfile.ClassData)
	if err != nil {
		return fmt.Errorf("scalarc: compiler init: reserving tmp register: %w", err)
	}
	st.TmpReg = reg
	return nil
}

// LoadConstant emits a pseudo load instruction for value into reg.
func (t *Target) LoadConstant(st *orcir.TargetState, reg, size int, value int64) error {
	st.AppendCode("loadc r%d, %d ; size=%d", reg, value, size)
	return nil
}

// AllocateCodeMem reserves the code buffer. When t.Interpreted is
// false it maps an executable/writable region via unix.Mmap +
// unix.Mprotect; otherwise it allocates a plain slice.
func (t *Target) AllocateCodeMem(st *orcir.TargetState) error {
	const codeSize = 4096
	if t.Interpreted {
		st.CodeBase = make([]byte, 0, codeSize)
		return nil
	}

	mem, err := unix.Mmap(-1, 0, codeSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return fmt.Errorf("scalarc: mmap code region: %w", err)
	}
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		return fmt.Errorf("scalarc: mprotect code region: %w", err)
	}
	st.CodeBase = mem[:0]
	return nil
}

// ReleaseCodeMem unmaps a region reserved by AllocateCodeMem.
func (t *Target) ReleaseCodeMem(st *orcir.TargetState) error {
	if t.Interpreted || st.CodeBase == nil {
		return nil
	}
	full := st.CodeBase[:cap(st.CodeBase)]
	st.CodeBase = nil
	if err := unix.Munmap(full); err != nil {
		return fmt.Errorf("scalarc: munmap code region: %w", err)
	}
	return nil
}

// Compile emits one placeholder opcode byte and one pseudo-asm line
// per bound instruction, in order.
func (t *Target) Compile(st *orcir.TargetState) error {
	for idx, insn := range st.Insns {
		if insn.Rule == nil || insn.Rule.Emit == nil {
			return fmt.Errorf("scalarc: instruction %d has no bound rule", idx)
		}
		if err := insn.Rule.Emit(st, insn.Rule.User, insn); err != nil {
			return fmt.Errorf("scalarc: instruction %d: %w", idx, err)
		}
	}
	return nil
}

// Rules returns the scalarc opcode -> emitter table. Each rule appends
// one placeholder opcode byte to st.CodeBase and a readable pseudo-asm
// line describing the operation, naming the registers the allocators
// already assigned to its operands.
func (t *Target) Rules() map[string]orcir.Rule {
	return map[string]orcir.Rule{
		"addl":     {Emit: emitBinary(opAddl)},
		"subl":     {Emit: emitBinary(opSubl)},
		"mull":     {Emit: emitBinary(opMull)},
		"copyl":    {Emit: emitCopy},
		"addssl":   {Emit: emitBinary(opAddssl)},
		"accsadub": {Emit: emitAccumulate},
	}
}

const (
	opAddl   byte = 0x01
	opSubl   byte = 0x02
	opMull   byte = 0x03
	opCopyl  byte = 0x04
	opAddssl byte = 0x05
	opAccum  byte = 0x06
)

func appendOpcode(st *orcir.TargetState, op byte) {
	st.CodeBase = append(st.CodeBase, op)
}

// emitBinary handles the two-src, single-dest non-accumulator opcodes
// (addl/subl/mull/addssl), the shape the local allocator's operand
// chaining is built for.
func emitBinary(op byte) func(st *orcir.TargetState, user any, insn *orcir.Instruction) error {
	return func(st *orcir.TargetState, user any, insn *orcir.Instruction) error {
		dest := st.Vars.At(insn.Dest[0])
		src1 := st.Vars.At(insn.Src[0])
		src2 := st.Vars.At(insn.Src[1])
		if dest == nil || src1 == nil || src2 == nil {
			return fmt.Errorf("scalarc: binary op missing operand")
		}
		appendOpcode(st, op)
		st.AppendCode("%s r%d, r%d, r%d ; %s = %s OP %s",
			insn.Op.Name, dest.Alloc, src1.Alloc, src2.Alloc, dest.Name, src1.Name, src2.Name)
		return nil
	}
}

func emitCopy(st *orcir.TargetState, user any, insn *orcir.Instruction) error {
	dest := st.Vars.At(insn.Dest[0])
	src := st.Vars.At(insn.Src[0])
	if dest == nil || src == nil {
		return fmt.Errorf("scalarc: copyl missing operand")
	}
	appendOpcode(st, opCopyl)
	st.AppendCode("copyl r%d, r%d ; %s = %s", dest.Alloc, src.Alloc, dest.Name, src.Name)
	return nil
}

// emitAccumulate handles accsadub, the accumulator-pairing exercising
// opcode: dest is the persistent ACCUMULATOR register, never chained.
func emitAccumulate(st *orcir.TargetState, user any, insn *orcir.Instruction) error {
	dest := st.Vars.At(insn.Dest[0])
	src1 := st.Vars.At(insn.Src[0])
	src2 := st.Vars.At(insn.Src[1])
	if dest == nil || src1 == nil || src2 == nil {
		return fmt.Errorf("scalarc: accsadub missing operand")
	}
	appendOpcode(st, opAccum)
	st.AppendCode("accsadub r%d, r%d, r%d ; %s += |%s - %s|",
		dest.Alloc, src1.Alloc, src2.Alloc, dest.Name, src1.Name, src2.Name)
	return nil
}
