package orcir

// Rule is a per-target emitter bound to an opcode (spec §6).
type Rule struct {
	Emit func(st *TargetState, user any, insn *Instruction) error
	User any
}

// Target is the contract a backend code generator implements (spec §6
// "Target contract"). Backend assemblers themselves are external
// collaborators; this interface is the seam the compilation core calls
// through.
type Target interface {
	// Name identifies the backend ("scalarc", "amd64", ...).
	Name() string
	// DataRegisterOffset is the base register number for the data
	// register class.
	DataRegisterOffset() int
	// Executable reports whether this target produces runnable native
	// code (false for targets that only emit asm text, e.g. for testing).
	Executable() bool

	// CompilerInit populates register classes, scratch register
	// numbers, and masking/loop-counter requirements onto st.
	CompilerInit(st *TargetState) error
	// Compile emits machine code by appending it to st.CodeBase.
	Compile(st *TargetState) error
	// LoadConstant materializes value into reg.
	LoadConstant(st *TargetState, reg, size int, value int64) error

	// Rules returns this target's opcode -> emitter table.
	Rules() map[string]Rule

	// NeedMaskRegs reports whether SRC variables need mask/offset/
	// aligned-data helper registers allocated (spec §4.6).
	NeedMaskRegs() bool
	// NeedLoopCounter reports whether a dedicated loop-counter GP
	// register should be allocated (spec §4.6).
	NeedLoopCounter() bool
	// TolerateLoopCounterOverflow reports whether exhausting registers
	// while allocating the loop counter should be silently cleared
	// rather than treated as fatal (spec §9's x86 hack, made a
	// target-configurable policy rather than a global).
	TolerateLoopCounterOverflow() bool

	// DefaultFlags returns this target's default configuration string.
	DefaultFlags() string

	// AllocateCodeMem reserves an executable region and sets st.CodeBase.
	AllocateCodeMem(st *TargetState) error
	// ReleaseCodeMem releases a region reserved by AllocateCodeMem,
	// called on compile failure.
	ReleaseCodeMem(st *TargetState) error
}
