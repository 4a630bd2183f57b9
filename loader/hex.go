package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/r3sim/insts"
)

// LoadHex reads a $readmemh-style image: 32-bit hex words separated by
// whitespace or newlines, `//` comments, and `@addr` directives giving the
// word index for the values that follow. Execution starts at address zero.
func LoadHex(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hex image: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := ParseHex(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hex image: %w", err)
	}
	return prog, nil
}

// ParseHex reads a hex image from r. Addresses in `@addr` directives are
// word indices, as in the Verilog $readmemh convention.
func ParseHex(r io.Reader) (*Program, error) {
	prog := &Program{}

	var words []uint32
	origin := uint32(0)

	flush := func() {
		if len(words) == 0 {
			return
		}
		data := make([]byte, len(words)*insts.InstructionWidth)
		for i, w := range words {
			binary.LittleEndian.PutUint32(data[i*insts.InstructionWidth:], w)
		}
		prog.Segments = append(prog.Segments, Segment{
			Addr:    origin * insts.InstructionWidth,
			Data:    data,
			MemSize: uint32(len(data)),
		})
		words = nil
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}

		for _, field := range strings.Fields(line) {
			if strings.HasPrefix(field, "@") {
				addr, err := strconv.ParseUint(field[1:], 16, 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid address %q", lineNum, field)
				}
				flush()
				origin = uint32(addr)
				continue
			}

			word, err := strconv.ParseUint(field, 16, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid word %q", lineNum, field)
			}
			words = append(words, uint32(word))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	flush()
	return prog, nil
}
