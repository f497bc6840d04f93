package orcir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableResolveForwardsOneLevel(t *testing.T) {
	orig := &Variable{Name: "t1", Kind: KindTemp}
	dup := &Variable{Name: "t1.dup3", Kind: KindTemp}
	orig.Replaced = true
	orig.Replacement = dup

	assert.Same(t, dup, orig.Resolve())
	assert.Same(t, dup, dup.Resolve(), "a replacement is never itself replaced")
}

func TestVarTableAppendDupNamesAndAppends(t *testing.T) {
	orig := &Variable{Name: "t1", Kind: KindTemp, Size: 4}
	vt := NewVarTable([]*Variable{orig})

	idx, dup := vt.AppendDup(orig, 7)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "t1.dup7", dup.Name)
	assert.Equal(t, KindTemp, dup.Kind)
	assert.Equal(t, 4, dup.Size)

	gotIdx, gotVar, ok := vt.Lookup("t1.dup7")
	require.True(t, ok)
	assert.Equal(t, idx, gotIdx)
	assert.Same(t, dup, gotVar)
	assert.Equal(t, 2, vt.Len())
}

func TestVarTableAtOutOfRangeReturnsNil(t *testing.T) {
	vt := NewVarTable(nil)
	assert.Nil(t, vt.At(0))
	assert.Nil(t, vt.At(-1))
}

func TestCompileErrorUpgradesZeroResult(t *testing.T) {
	err := NewCompileError(ResultOK, "oops: %d", 42)
	assert.Equal(t, ResultUnknownCompile, err.Result, "a zero/OK result at error time must upgrade to UNKNOWN_COMPILE")
	assert.Contains(t, err.Error(), "oops: 42")
}

func TestResultClassification(t *testing.T) {
	assert.True(t, ResultOK.Successful())
	assert.False(t, ResultUnknownParse.Successful())
	assert.True(t, ResultUnknownParse.Fatal())
	assert.False(t, ResultUnknownCompile.Fatal())
}

func TestLookupOpcode(t *testing.T) {
	op, ok := LookupOpcode("addl")
	require.True(t, ok)
	assert.Equal(t, 2, op.NumSrc())
	assert.Equal(t, 1, op.NumDest())
	assert.False(t, op.IsAccumulator())

	acc, ok := LookupOpcode("accsadub")
	require.True(t, ok)
	assert.True(t, acc.IsAccumulator())

	_, ok = LookupOpcode("nonexistent")
	assert.False(t, ok)
}
