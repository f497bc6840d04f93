// Package constpool deduplicates immediate constants widened to 32
// bits, associating allocated registers with reused values (spec §4.8).
package constpool

import "github.com/GriffinCanCode/orc-go/pkg/regfile"

// Loader materializes a constant value into a register. Backends
// implement this as part of the Target contract's LoadConstant.
type Loader interface {
	LoadConstant(reg, size int, value int64) error
}

// Entry is one deduplicated pool entry.
type Entry struct {
	Value    uint32
	AllocReg int
	UseCount int
}

// Pool is a linear-search dedup table of widened immediate values.
type Pool struct {
	entries []*Entry
}

// New creates an empty constant pool.
func New() *Pool {
	return &Pool{}
}

// Widen replicates a value up to 32 bits by byte/word replication when
// size < 4, so the same 32-bit register can serve sub-word lanes.
// Widening an already-32-bit (or wider, truncated to 32 bits) value is
// a no-op.
func Widen(value int64, size int) uint32 {
	switch size {
	case 1:
		b := uint32(value) & 0xff
		return b | b<<8 | b<<16 | b<<24
	case 2:
		h := uint32(value) & 0xffff
		return h | h<<16
	default:
		return uint32(value)
	}
}

// Entries exposes the pool contents for inspection (e.g. by tests
// checking spec invariant 7: every entry has UseCount >= 1 and no two
// entries share the same widened value).
func (p *Pool) Entries() []*Entry { return p.entries }

// Get returns a register holding value widened to size, allocating and
// materializing it on first use and reusing the cached register
// (bumping its use count) on subsequent calls with an equal widened
// value.
func (p *Pool) Get(rf *regfile.RegisterFile, loader Loader, size int, value int64) (int, error) {
	w := Widen(value, size)

	for _, e := range p.entries {
		if e.Value == w {
			e.UseCount++
			return e.AllocReg, nil
		}
	}

	reg, err := rf.Allocate(regfile.ClassData)
	if err != nil {
		return 0, err
	}
	if err := loader.LoadConstant(reg, size, value); err != nil {
		return 0, err
	}

	p.entries = append(p.entries, &Entry{Value: w, AllocReg: reg, UseCount: 1})
	return reg, nil
}
