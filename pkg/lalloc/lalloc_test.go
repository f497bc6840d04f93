package lalloc

import (
	"testing"

	"github.com/GriffinCanCode/orc-go/pkg/liveness"
	"github.com/GriffinCanCode/orc-go/pkg/orcir"
	"github.com/GriffinCanCode/orc-go/pkg/regfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshRF(dataBase int) *regfile.RegisterFile {
	rf := regfile.New(dataBase)
	for i := 0; i < 64; i++ {
		rf.MarkValid(i)
	}
	return rf
}

func addInsn(dest, src1, src2 int) *orcir.Instruction {
	op, _ := orcir.LookupOpcode("addl")
	insn := orcir.NewInstruction(op)
	insn.Dest[0] = dest
	insn.Src[0] = src1
	insn.Src[1] = src2
	return insn
}

func copyInsn(dest, src int) *orcir.Instruction {
	op, _ := orcir.LookupOpcode("copyl")
	insn := orcir.NewInstruction(op)
	insn.Dest[0] = dest
	insn.Src[0] = src
	return insn
}

func TestChainingReusesDyingSrcRegisterForDest(t *testing.T) {
	vars := orcir.NewVarTable([]*orcir.Variable{
		{Name: "s1", Size: 4, Kind: orcir.KindSrc},
		{Name: "t1", Size: 4, Kind: orcir.KindTemp},
	})
	insns := []*orcir.Instruction{copyInsn(1, 0)}
	require.NoError(t, liveness.Rewrite(insns, vars))

	rf := freshRF(0)
	require.NoError(t, Allocate(insns, vars, rf))

	s1, t1 := vars.At(0), vars.At(1)
	assert.Equal(t, s1.Alloc, t1.Alloc, "a dest whose sole src dies at the same instruction should chain into the src's register")
}

func TestFirstUseAllocatesAndLastUseReleases(t *testing.T) {
	vars := orcir.NewVarTable([]*orcir.Variable{
		{Name: "d", Size: 4, Kind: orcir.KindDest},
		{Name: "s1", Size: 4, Kind: orcir.KindSrc},
		{Name: "s2", Size: 4, Kind: orcir.KindSrc},
	})
	insns := []*orcir.Instruction{addInsn(0, 1, 2)}
	require.NoError(t, liveness.Rewrite(insns, vars))

	rf := freshRF(0)
	require.NoError(t, Allocate(insns, vars, rf))

	s1 := vars.At(1)
	assert.NotZero(t, s1.Alloc)
	assert.Equal(t, 0, rf.AllocCount(s1.Alloc), "a single-use variable's register should be fully released by the end of its only instruction")
}

func TestNonChainingAccumulatorOpcodeAllocatesIndependently(t *testing.T) {
	// accsadub has two src slots and is an accumulator op, so chaining
	// must not apply even though it superficially resembles addl.
	accOp, _ := orcir.LookupOpcode("accsadub")
	insn := orcir.NewInstruction(accOp)
	insn.Dest[0] = 0
	insn.Src[0] = 1
	insn.Src[1] = 2

	vars := orcir.NewVarTable([]*orcir.Variable{
		{Name: "acc", Size: 4, Kind: orcir.KindAccumulator},
		{Name: "s1", Size: 1, Kind: orcir.KindSrc},
		{Name: "s2", Size: 1, Kind: orcir.KindSrc},
	})
	insns := []*orcir.Instruction{insn}
	require.NoError(t, liveness.Rewrite(insns, vars))

	rf := freshRF(0)
	acc := vars.At(0)
	accReg, err := rf.Allocate(regfile.ClassData)
	require.NoError(t, err)
	acc.Alloc = accReg // accumulators get their register from global alloc, pre-seeded here

	require.NoError(t, Allocate(insns, vars, rf))

	s1 := vars.At(1)
	assert.NotEqual(t, acc.Alloc, s1.Alloc)
}
