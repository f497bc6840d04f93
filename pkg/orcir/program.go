package orcir

// Size caps bounding the statically-sized problem (spec §5).
const (
	MaxInstructions = 100
	MaxVariables    = 20
	MaxRegisters    = 128
)

// NativeFunc stands in for a callable native function pointer. Its
// actual representation belongs to the emulation interpreter and
// backup-function collaborators, which are out of scope (spec §1); the
// compiler core only ever checks it for nil-ness and copies it onto
// Program.Runnable as a fallback.
type NativeFunc func()

// Program is the finished input to compilation: a variable table plus
// an instruction stream. Program construction (the helpers that build
// these up incrementally) is an out-of-scope collaborator, so the only
// supported way to produce one here is literal struct construction by
// a caller that already has a finished program.
type Program struct {
	Vars  []*Variable
	Insns []*Instruction

	// Backup is a pre-supplied native function. If the "backup" flag is
	// set, compilation of a program carrying one is refused (spec §4.1).
	Backup NativeFunc
	// Emulator is the interpreter fallback pre-seeded onto Runnable
	// before native compilation runs (spec §4.9 step 2), so the program
	// stays runnable even if native compilation fails.
	Emulator NativeFunc
	// Runnable is set to Backup, or else Emulator, at the start of
	// compilation (spec §4.9 step 2). Actually invoking it is an
	// out-of-scope execution concern; the compiler core only tracks it.
	Runnable NativeFunc

	AsmCode  string
	Code     []byte
	CodeSize int
}
