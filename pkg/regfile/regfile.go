// Package regfile implements per-compilation register bookkeeping: a
// fixed-size register set with validity, save-list, use, and refcount
// allocation bitmaps (spec §4.2).
package regfile

import "errors"

// Class selects which register family to allocate from.
type Class int

const (
	// ClassData selects the data (vector/scalar value) register class.
	ClassData Class = iota
	// ClassGP selects the general-purpose (address/counter) register class.
	ClassGP
)

const (
	// NRegs bounds the register number space (spec §5's ≤128 cap).
	NRegs = 128
	// scanWidth is how many candidate registers are scanned from a
	// class's base register, per spec §4.2's selection order.
	scanWidth = 32
	// gpBase is the fixed base register number for the GP class.
	gpBase = 0
)

// ErrRegisterOverflow is returned when no free register can be found
// in either allocation pass.
var ErrRegisterOverflow = errors.New("regfile: register allocator exhausted")

// RegisterFile owns the four bitmaps of spec §4.2/§3 for one compilation.
type RegisterFile struct {
	valid [NRegs]bool
	save  [NRegs]bool
	used  [NRegs]bool
	alloc [NRegs]int

	dataBase int
	gpBase   int
}

// New creates a RegisterFile whose data class starts at dataBase (the
// target's declared DataRegisterOffset) and whose GP class starts at
// the fixed base.
func New(dataBase int) *RegisterFile {
	return &RegisterFile{dataBase: dataBase, gpBase: gpBase}
}

// MarkValid marks a register number as a member of the valid set.
func (rf *RegisterFile) MarkValid(reg int) {
	if reg >= 0 && reg < NRegs {
		rf.valid[reg] = true
	}
}

// MarkSave marks a register number as call-preserved (on the save list).
func (rf *RegisterFile) MarkSave(reg int) {
	if reg >= 0 && reg < NRegs {
		rf.save[reg] = true
	}
}

// Used reports whether a register was ever allocated during this compile.
func (rf *RegisterFile) Used(reg int) bool {
	return reg >= 0 && reg < NRegs && rf.used[reg]
}

// AllocCount returns the current refcount for a register.
func (rf *RegisterFile) AllocCount(reg int) int {
	if reg < 0 || reg >= NRegs {
		return 0
	}
	return rf.alloc[reg]
}

// Allocate selects a register from class, per spec §4.2's two-pass
// selection order: first pass accepts only valid, non-save-list,
// currently-unallocated registers; a second pass (only if the first
// finds none) also accepts save-list registers. This reserves
// call-preserved registers when possible.
//
// Register number 0 is never handed out: Variable.Alloc/PtrRegister
// use 0 as the "not yet allocated" sentinel throughout the allocator
// packages, so register 0 itself must stay reserved.
func (rf *RegisterFile) Allocate(class Class) (int, error) {
	base := rf.gpBase
	if class == ClassData {
		base = rf.dataBase
	}

	for i := 0; i < scanWidth; i++ {
		r := base + i
		if r <= 0 || r >= NRegs {
			continue
		}
		if rf.valid[r] && !rf.save[r] && rf.alloc[r] == 0 {
			return rf.take(r), nil
		}
	}

	for i := 0; i < scanWidth; i++ {
		r := base + i
		if r <= 0 || r >= NRegs {
			continue
		}
		if rf.valid[r] && rf.alloc[r] == 0 {
			return rf.take(r), nil
		}
	}

	return 0, ErrRegisterOverflow
}

func (rf *RegisterFile) take(r int) int {
	rf.alloc[r]++
	rf.used[r] = true
	return r
}

// Bump increments a register's refcount. Chaining uses this so that a
// dest reusing its src's register keeps the src's count balanced
// through the coming last-use decrement (spec §4.2/§4.7).
func (rf *RegisterFile) Bump(reg int) {
	if reg >= 0 && reg < NRegs {
		rf.alloc[reg]++
	}
}

// Release decrements a register's refcount, freeing it once it reaches
// zero. Refcounts (not busy bits) are required to support chaining
// (spec §9 "Allocator refcounting vs bitmap").
func (rf *RegisterFile) Release(reg int) {
	if reg >= 0 && reg < NRegs && rf.alloc[reg] > 0 {
		rf.alloc[reg]--
	}
}
