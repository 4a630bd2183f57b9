package loader

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/r3sim/emu"
)

// Segment is one contiguous region of a program image.
type Segment struct {
	// Addr is the byte address of the segment's first word.
	Addr uint32
	// Data holds the segment contents from the file.
	Data []byte
	// MemSize is the extent in memory. When larger than len(Data), the
	// excess is zero-filled (BSS).
	MemSize uint32
}

// Program is a loaded program image.
type Program struct {
	// Entry is the address where execution should begin.
	Entry uint32
	// Segments holds all loadable regions.
	Segments []Segment
}

// WriteTo copies every segment into mem, word by word. Segment data is
// zero-padded to a whole number of words.
func (p *Program) WriteTo(mem *emu.Memory) error {
	for _, seg := range p.Segments {
		size := seg.MemSize
		if size < uint32(len(seg.Data)) {
			size = uint32(len(seg.Data))
		}
		for off := uint32(0); off < size; off += 4 {
			var buf [4]byte
			for i := uint32(0); i < 4; i++ {
				if off+i < uint32(len(seg.Data)) {
					buf[i] = seg.Data[off+i]
				}
			}
			word := binary.LittleEndian.Uint32(buf[:])
			if err := mem.WriteWord(seg.Addr+off, word); err != nil {
				return fmt.Errorf("failed to write segment at 0x%08x: %w", seg.Addr, err)
			}
		}
	}
	return nil
}
