// Package rulebind looks up and attaches a per-target emitter to each
// instruction by opcode name (spec §4.4).
package rulebind

import "github.com/GriffinCanCode/orc-go/pkg/orcir"

// Bind consults target's rule table for every instruction's opcode and
// attaches the matching *orcir.Rule. A missing rule, or a rule with a
// nil Emit function, is a fatal UNKNOWN_COMPILE.
func Bind(insns []*orcir.Instruction, target orcir.Target) error {
	rules := target.Rules()
	for idx, insn := range insns {
		rule, ok := rules[insn.Op.Name]
		if !ok || rule.Emit == nil {
			return orcir.NewCompileError(orcir.ResultUnknownCompile,
				"instruction %d: target %q has no rule for opcode %q", idx, target.Name(), insn.Op.Name)
		}
		r := rule
		insn.Rule = &r
	}
	return nil
}
