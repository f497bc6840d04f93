package orcir

import "fmt"

// VarTable is the tagged-variant collection spec §9 calls for: a
// dynamically-sized store of variables, addressed by integer index but
// each entry self-describing via its own Kind. Duplicate temps created
// by the liveness rewriter are appended past the end, so the
// originating instruction index is always reconstructable from the
// duplicate's name ("<orig>.dup<j>") without a separate side table.
type VarTable struct {
	vars   []*Variable
	byName map[string]int
}

// NewVarTable wraps a program's variable slice for in-place mutation
// during compilation.
func NewVarTable(vars []*Variable) *VarTable {
	vt := &VarTable{
		vars:   make([]*Variable, len(vars)),
		byName: make(map[string]int, len(vars)),
	}
	for i, v := range vars {
		vt.vars[i] = v
		if v != nil && v.Name != "" {
			vt.byName[v.Name] = i
		}
	}
	return vt
}

// Len returns the number of slots, including appended duplicates and
// any nil (empty) slots.
func (vt *VarTable) Len() int { return len(vt.vars) }

// At returns the variable at index i, or nil if i is out of range.
func (vt *VarTable) At(i int) *Variable {
	if i < 0 || i >= len(vt.vars) {
		return nil
	}
	return vt.vars[i]
}

// Lookup resolves a variable by name.
func (vt *VarTable) Lookup(name string) (int, *Variable, bool) {
	idx, ok := vt.byName[name]
	if !ok {
		return 0, nil, false
	}
	return idx, vt.vars[idx], true
}

// All returns every variable slot, in index order; an empty slot is nil.
func (vt *VarTable) All() []*Variable { return vt.vars }

// AppendDup duplicates an already-used TEMP that is being written again
// (spec §4.5/§9): a fresh single-assignment TEMP slot, named after the
// original plus the rewriting instruction index, appended past the last
// occupied slot.
func (vt *VarTable) AppendDup(orig *Variable, insnIdx int) (int, *Variable) {
	name := fmt.Sprintf("%s.dup%d", orig.Name, insnIdx)
	nv := &Variable{
		Name: name,
		Size: orig.Size,
		Kind: KindTemp,
	}
	idx := len(vt.vars)
	vt.vars = append(vt.vars, nv)
	vt.byName[name] = idx
	return idx, nv
}
