// Package emu provides the architectural state and functional emulation of an
// RV32IM machine.
package emu

// NumRegs is the number of general-purpose registers.
const NumRegs = 32

// RegFile represents the RV32 integer register file and program counter.
// Register x0 is hardwired to zero: reads return 0 and writes are discarded.
type RegFile struct {
	X  [NumRegs]uint32 // General-purpose registers x0-x31
	PC uint32          // Program counter
}

// ReadReg returns the value of a general-purpose register.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == 0 || reg >= NumRegs {
		return 0
	}
	return r.X[reg]
}

// WriteReg sets a general-purpose register. Writes to x0 are discarded.
func (r *RegFile) WriteReg(reg uint8, val uint32) {
	if reg == 0 || reg >= NumRegs {
		return
	}
	r.X[reg] = val
}

// Reset clears every register and the program counter.
func (r *RegFile) Reset() {
	*r = RegFile{}
}
