package emu

import (
	"encoding/binary"
	"fmt"
)

// Memory is a flat, word-addressable memory of fixed extent. Words are stored
// little-endian. Accesses outside the extent or off word alignment fail with
// an AccessError.
type Memory struct {
	data []byte
}

// NewMemory creates a memory of the given extent in bytes, rounded down to a
// whole number of words.
func NewMemory(size uint32) *Memory {
	return &Memory{data: make([]byte, size&^0x3)}
}

// Size returns the memory extent in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

// ReadWord reads the 32-bit word at a word-aligned byte address.
func (m *Memory) ReadWord(addr uint32) (uint32, error) {
	if err := m.check(addr); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[addr:]), nil
}

// WriteWord writes a 32-bit word at a word-aligned byte address.
func (m *Memory) WriteWord(addr uint32, value uint32) error {
	if err := m.check(addr); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[addr:], value)
	return nil
}

func (m *Memory) check(addr uint32) error {
	if addr%4 != 0 || uint64(addr)+4 > uint64(len(m.data)) {
		return &AccessError{Addr: addr, Size: m.Size()}
	}
	return nil
}

// AccessError reports a memory access outside the configured extent or off
// word alignment.
type AccessError struct {
	Addr uint32 // offending byte address
	Size uint32 // configured extent in bytes
}

func (e *AccessError) Error() string {
	if e.Addr%4 != 0 {
		return fmt.Sprintf("misaligned word address 0x%08x", e.Addr)
	}
	return fmt.Sprintf("address 0x%08x out of range (memory extent 0x%x)", e.Addr, e.Size)
}
