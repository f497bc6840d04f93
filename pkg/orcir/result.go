package orcir

import "fmt"

// Result is the outcome code of a compile, mirroring spec §6/§7.
type Result int

const (
	ResultOK Result = iota
	ResultUnknownParse
	ResultUnknownCompile
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultUnknownParse:
		return "UNKNOWN_PARSE"
	case ResultUnknownCompile:
		return "UNKNOWN_COMPILE"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Successful reports whether a result represents a usable compile.
// Only ResultOK qualifies: no minor-issue codes are defined besides the
// three Result values, so every other value, ResultUnknownCompile
// included, reports false.
func (r Result) Successful() bool {
	return r == ResultOK
}

// Fatal reports whether a result represents a semantic/parse error in
// the program itself, as opposed to a compilation failure.
func (r Result) Fatal() bool {
	return r == ResultUnknownParse
}

// CompileError carries a Result alongside a human-readable message.
type CompileError struct {
	Result Result
	Msg    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Result, e.Msg)
}

// NewCompileError builds a *CompileError, upgrading a zero Result to
// UNKNOWN_COMPILE per spec §4.9's result-policy rule (a zero result at
// error time is upgraded rather than silently reported as OK).
func NewCompileError(result Result, format string, args ...any) *CompileError {
	if result == ResultOK {
		result = ResultUnknownCompile
	}
	return &CompileError{Result: result, Msg: fmt.Sprintf(format, args...)}
}
