package liveness

import (
	"testing"

	"github.com/GriffinCanCode/orc-go/pkg/orcir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addInsn(dest, src1, src2 int) *orcir.Instruction {
	op, _ := orcir.LookupOpcode("addl")
	insn := orcir.NewInstruction(op)
	insn.Dest[0] = dest
	insn.Src[0] = src1
	insn.Src[1] = src2
	return insn
}

func TestRewriteRecordsFirstAndLastUse(t *testing.T) {
	vars := orcir.NewVarTable([]*orcir.Variable{
		{Name: "d", Size: 4, Kind: orcir.KindDest},
		{Name: "s1", Size: 4, Kind: orcir.KindSrc},
		{Name: "s2", Size: 4, Kind: orcir.KindSrc},
	})
	insns := []*orcir.Instruction{addInsn(0, 1, 2)}

	require.NoError(t, Rewrite(insns, vars))

	s1 := vars.At(1)
	assert.Equal(t, 0, s1.FirstUse)
	assert.Equal(t, 0, s1.LastUse)
	assert.True(t, s1.Used)
}

func TestRewriteDuplicatesTempWrittenTwice(t *testing.T) {
	vars := orcir.NewVarTable([]*orcir.Variable{
		{Name: "t1", Size: 4, Kind: orcir.KindTemp},
		{Name: "s1", Size: 4, Kind: orcir.KindSrc},
		{Name: "s2", Size: 4, Kind: orcir.KindSrc},
		{Name: "s3", Size: 4, Kind: orcir.KindSrc},
	})
	first := addInsn(0, 1, 2)  // t1 = s1 + s2
	second := addInsn(0, 0, 3) // t1 = t1 + s3 : writes t1 again after first already wrote it, so the write goes to a duplicate
	insns := []*orcir.Instruction{first, second}

	require.NoError(t, Rewrite(insns, vars))

	orig := vars.At(0)
	assert.True(t, orig.Replaced)
	require.NotNil(t, orig.Replacement)
	assert.Equal(t, "t1.dup1", orig.Replacement.Name)

	// the second instruction's dest slot is rewritten to the duplicate...
	assert.Equal(t, orig.Replacement, vars.At(second.Dest[0]))
	// ...but its src slot, resolved before the duplication decision was
	// made for this same instruction, still reads the pre-write value.
	assert.Same(t, orig, vars.At(second.Src[0]))
}

func TestRewriteDuplicatesTempWrittenThreeTimesStaysDepthOne(t *testing.T) {
	vars := orcir.NewVarTable([]*orcir.Variable{
		{Name: "t1", Size: 4, Kind: orcir.KindTemp},
		{Name: "s1", Size: 4, Kind: orcir.KindSrc},
		{Name: "s2", Size: 4, Kind: orcir.KindSrc},
		{Name: "s3", Size: 4, Kind: orcir.KindSrc},
		{Name: "s4", Size: 4, Kind: orcir.KindSrc},
		{Name: "d1", Size: 4, Kind: orcir.KindDest},
	})
	first := addInsn(0, 1, 2)  // t1 = s1 + s2
	second := addInsn(0, 0, 3) // t1 = t1 + s3
	third := addInsn(0, 0, 4)  // t1 = t1 + s4
	copyOp, _ := orcir.LookupOpcode("copyl")
	fourth := orcir.NewInstruction(copyOp)
	fourth.Dest[0], fourth.Src[0] = 5, 0 // d1 = t1
	insns := []*orcir.Instruction{first, second, third, fourth}

	require.NoError(t, Rewrite(insns, vars))

	orig := vars.At(0)
	require.True(t, orig.Replaced)
	require.NotNil(t, orig.Replacement)
	// the chain must stay depth 1: orig always points at the *latest*
	// duplicate, never at an intermediate one.
	assert.Equal(t, "t1.dup2", orig.Replacement.Name)
	assert.False(t, orig.Replacement.Replaced, "a replacement must never itself be replaced")

	// second's src slot still reads the pre-write original (resolved
	// before second's own dest duplication ran)...
	assert.Same(t, orig, vars.At(second.Src[0]))
	// ...but third's src slot must read second's result, not the stale
	// first-duplication value.
	assert.Equal(t, "t1.dup1", vars.At(third.Src[0]).Name)
	assert.Equal(t, "t1.dup1", vars.At(second.Dest[0]).Name)
	assert.Equal(t, "t1.dup2", vars.At(third.Dest[0]).Name)

	// the final copy must read third's result, the live value.
	assert.Equal(t, "t1.dup2", vars.At(fourth.Src[0]).Name)
}

func TestRewriteRejectsUninitializedTempRead(t *testing.T) {
	vars := orcir.NewVarTable([]*orcir.Variable{
		{Name: "d", Size: 4, Kind: orcir.KindDest},
		{Name: "t1", Size: 4, Kind: orcir.KindTemp},
		{Name: "s2", Size: 4, Kind: orcir.KindSrc},
	})
	insns := []*orcir.Instruction{addInsn(0, 1, 2)}

	err := Rewrite(insns, vars)
	require.Error(t, err)
	ce, ok := err.(*orcir.CompileError)
	require.True(t, ok)
	assert.Equal(t, orcir.ResultUnknownParse, ce.Result)
}

func TestRewriteRejectsDestIntoSrcKind(t *testing.T) {
	vars := orcir.NewVarTable([]*orcir.Variable{
		{Name: "s0", Size: 4, Kind: orcir.KindSrc},
		{Name: "s1", Size: 4, Kind: orcir.KindSrc},
		{Name: "s2", Size: 4, Kind: orcir.KindSrc},
	})
	insns := []*orcir.Instruction{addInsn(0, 1, 2)}

	err := Rewrite(insns, vars)
	assert.Error(t, err)
}

func TestRewriteEnforcesAccumulatorPairing(t *testing.T) {
	accOp, _ := orcir.LookupOpcode("accsadub")
	insn := orcir.NewInstruction(accOp)
	insn.Dest[0] = 0
	insn.Src[0] = 1
	insn.Src[1] = 2

	vars := orcir.NewVarTable([]*orcir.Variable{
		{Name: "d", Size: 4, Kind: orcir.KindDest}, // wrong kind for an accumulator opcode
		{Name: "s1", Size: 1, Kind: orcir.KindSrc},
		{Name: "s2", Size: 1, Kind: orcir.KindSrc},
	})

	err := Rewrite([]*orcir.Instruction{insn}, vars)
	assert.Error(t, err)
}

func TestRewriteSetsLoadDestWhenSrcResolvesToDest(t *testing.T) {
	vars := orcir.NewVarTable([]*orcir.Variable{
		{Name: "s1", Size: 4, Kind: orcir.KindSrc},
		{Name: "d", Size: 4, Kind: orcir.KindDest},
		{Name: "e", Size: 4, Kind: orcir.KindDest},
	})
	op, _ := orcir.LookupOpcode("copyl")

	write := orcir.NewInstruction(op)
	write.Dest[0] = 1 // d = s1
	write.Src[0] = 0

	readBack := orcir.NewInstruction(op)
	readBack.Dest[0] = 2 // e = d
	readBack.Src[0] = 1

	insns := []*orcir.Instruction{write, readBack}
	require.NoError(t, Rewrite(insns, vars))

	assert.False(t, write.LoadDest)
	assert.True(t, readBack.LoadDest, "reading a DEST-kind variable as a src must force a load-dest readback")
}
