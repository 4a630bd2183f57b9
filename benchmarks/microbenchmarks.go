// Package benchmarks provides timing benchmark infrastructure for R3Sim calibration.
package benchmarks

import (
	"github.com/sarchlab/r3sim/emu"
	"github.com/sarchlab/r3sim/insts"
)

// GetMicrobenchmarks returns the standard set of microbenchmarks.
// Each benchmark targets a specific pipeline characteristic.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		loadUseChain(),
		multiplyChain(),
		branchLoop(),
		memoryCopy(),
		matrixMultiply2x2(),
		mixedOperations(),
	}
}

// GetCoreBenchmarks returns a minimal set of 3 core benchmarks for quick
// validation: a counted loop, a matrix multiply, and a memory copy.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		branchLoop(),
		matrixMultiply2x2(),
		memoryCopy(),
	}
}

// 1. Arithmetic Sequential - Tests ALU throughput with independent operations
func arithmeticSequential() Benchmark {
	program := make([]uint32, 0, 22)
	// 4 rounds over x1..x5, no round touches a register the previous
	// instruction wrote
	for round := 0; round < 4; round++ {
		for reg := uint32(1); reg <= 5; reg++ {
			program = append(program, insts.ADDI(reg, reg, 1))
		}
	}
	program = append(program,
		insts.ADDI(10, 1, 0), // a0 = x1 = 4
		insts.ECALL(),
	)

	return Benchmark{
		Name:         "arithmetic_sequential",
		Description:  "20 independent ADDI operations - measures ALU throughput",
		Program:      program,
		ExpectedExit: 4,
	}
}

// 2. Dependency Chain - Tests forwarding with back-to-back RAW hazards
func dependencyChain() Benchmark {
	return Benchmark{
		Name:         "dependency_chain",
		Description:  "20 dependent ADDIs (a0 = a0 + 1) - measures forwarding latency",
		Program:      buildDependencyChain(20),
		ExpectedExit: 20,
	}
}

func buildDependencyChain(n int) []uint32 {
	program := make([]uint32, 0, n+1)
	for i := 0; i < n; i++ {
		program = append(program, insts.ADDI(10, 10, 1))
	}
	program = append(program, insts.ECALL())
	return program
}

// 3. Load-Use Chain - Tests the load-use stall with adjacent consumers
func loadUseChain() Benchmark {
	program := make([]uint32, 0, 21)
	for i := int32(0); i < 10; i++ {
		program = append(program,
			insts.LW(5, 1, i*4),  // x5 = mem[x1 + 4i]
			insts.ADD(10, 10, 5), // a0 += x5, consumes the load next cycle
		)
	}
	program = append(program, insts.ECALL())

	return Benchmark{
		Name:        "load_use_chain",
		Description: "10 load-then-use pairs - every pair incurs a load-use stall",
		Setup: func(regFile *emu.RegFile, dmem *emu.Memory) {
			regFile.WriteReg(1, 0x400) // x1 = array base
			for i := uint32(0); i < 10; i++ {
				_ = dmem.WriteWord(0x400+i*4, i+1)
			}
		},
		Program:      program,
		ExpectedExit: 55, // 1 + 2 + ... + 10
	}
}

// 4. Multiply Chain - Tests the multi-cycle execute stall
func multiplyChain() Benchmark {
	program := make([]uint32, 0, 6)
	for i := 0; i < 5; i++ {
		program = append(program, insts.MUL(10, 10, 11)) // a0 *= x11
	}
	program = append(program, insts.ECALL())

	return Benchmark{
		Name:        "multiply_chain",
		Description: "5 dependent MULs - measures multiply latency stalls",
		Setup: func(regFile *emu.RegFile, dmem *emu.Memory) {
			regFile.WriteReg(10, 1) // a0 = 1
			regFile.WriteReg(11, 3) // x11 = 3
		},
		Program:      program,
		ExpectedExit: 243, // 3^5
	}
}

// 5. Branch Loop - Tests backward branch resolution in decode
func branchLoop() Benchmark {
	return Benchmark{
		Name:        "branch_loop",
		Description: "Counted loop summing 5..1 - measures taken-branch behavior",
		Program: []uint32{
			insts.ADDI(1, 0, 5),  // x1 = 5 (i)
			insts.ADDI(2, 0, 0),  // x2 = 0 (sum)
			insts.ADD(2, 2, 1),   // loop: sum += i
			insts.ADDI(1, 1, -1), // i--
			insts.BNE(1, 0, -8),  // repeat while i != 0
			insts.ADDI(10, 2, 0), // a0 = sum
			insts.ECALL(),
		},
		ExpectedExit: 15, // 5 + 4 + 3 + 2 + 1
	}
}

// 6. Memory Copy - Tests load/store traffic with store-data hazards
func memoryCopy() Benchmark {
	program := make([]uint32, 0, 17)
	for i := int32(0); i < 4; i++ {
		program = append(program,
			insts.LW(5, 1, i*4), // x5 = src[i]
			insts.SW(5, 2, i*4), // dst[i] = x5, store data needs the load
		)
	}
	for i := int32(0); i < 4; i++ {
		program = append(program,
			insts.LW(6, 2, i*4),  // x6 = dst[i]
			insts.ADD(10, 10, 6), // a0 += x6
		)
	}
	program = append(program, insts.ECALL())

	return Benchmark{
		Name:        "memory_copy",
		Description: "4-word copy then checksum - measures store-data stalls",
		Setup: func(regFile *emu.RegFile, dmem *emu.Memory) {
			regFile.WriteReg(1, 0x400) // x1 = src
			regFile.WriteReg(2, 0x500) // x2 = dst
			_ = dmem.WriteWord(0x400, 10)
			_ = dmem.WriteWord(0x404, 20)
			_ = dmem.WriteWord(0x408, 30)
			_ = dmem.WriteWord(0x40C, 40)
		},
		Program:      program,
		ExpectedExit: 100, // 10 + 20 + 30 + 40
	}
}

// 7. Matrix Multiply 2x2 - Tests a load/multiply/store computation
func matrixMultiply2x2() Benchmark {
	return Benchmark{
		Name:        "matrix_multiply_2x2",
		Description: "2x2 matrix multiply - mixes loads, MULs, and stores",
		Setup: func(regFile *emu.RegFile, dmem *emu.Memory) {
			// A at 0x400: [[1, 2], [3, 4]], row-major
			regFile.WriteReg(1, 0x400)
			_ = dmem.WriteWord(0x400, 1)
			_ = dmem.WriteWord(0x404, 2)
			_ = dmem.WriteWord(0x408, 3)
			_ = dmem.WriteWord(0x40C, 4)

			// B at 0x420: [[5, 6], [7, 8]]
			regFile.WriteReg(2, 0x420)
			_ = dmem.WriteWord(0x420, 5)
			_ = dmem.WriteWord(0x424, 6)
			_ = dmem.WriteWord(0x428, 7)
			_ = dmem.WriteWord(0x42C, 8)

			// C at 0x440 (result)
			regFile.WriteReg(3, 0x440)
		},
		// C = A x B = [[19, 22], [43, 50]], exit = sum of C
		Program: []uint32{
			insts.LW(5, 1, 0),   // x5 = a11 = 1
			insts.LW(6, 1, 4),   // x6 = a12 = 2
			insts.LW(7, 1, 8),   // x7 = a21 = 3
			insts.LW(8, 1, 12),  // x8 = a22 = 4
			insts.LW(9, 2, 0),   // x9 = b11 = 5
			insts.LW(11, 2, 4),  // x11 = b12 = 6
			insts.LW(12, 2, 8),  // x12 = b21 = 7
			insts.LW(13, 2, 12), // x13 = b22 = 8

			insts.MUL(14, 5, 9),   // a11*b11 = 5
			insts.MUL(15, 6, 12),  // a12*b21 = 14
			insts.ADD(14, 14, 15), // c11 = 19
			insts.MUL(15, 5, 11),  // a11*b12 = 6
			insts.MUL(16, 6, 13),  // a12*b22 = 16
			insts.ADD(15, 15, 16), // c12 = 22
			insts.MUL(16, 7, 9),   // a21*b11 = 15
			insts.MUL(17, 8, 12),  // a22*b21 = 28
			insts.ADD(16, 16, 17), // c21 = 43
			insts.MUL(17, 7, 11),  // a21*b12 = 18
			insts.MUL(18, 8, 13),  // a22*b22 = 32
			insts.ADD(17, 17, 18), // c22 = 50

			insts.SW(14, 3, 0),
			insts.SW(15, 3, 4),
			insts.SW(16, 3, 8),
			insts.SW(17, 3, 12),

			insts.ADD(10, 14, 15), // a0 = 19 + 22 = 41
			insts.ADD(10, 10, 16), // a0 = 84
			insts.ADD(10, 10, 17), // a0 = 134
			insts.ECALL(),
		},
		ExpectedExit: 134, // 19 + 22 + 43 + 50
	}
}

// 8. Mixed Operations - Combination of branch, multiply, load, and ALU
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "Jump, MUL, load, and ADD in sequence - realistic mix",
		Setup: func(regFile *emu.RegFile, dmem *emu.Memory) {
			regFile.WriteReg(1, 0x400) // x1 = data address
			regFile.WriteReg(5, 6)
			regFile.WriteReg(6, 7)
			_ = dmem.WriteWord(0x400, 7)
		},
		Program: []uint32{
			insts.JAL(0, 8),       // skip the next instruction
			insts.ADDI(10, 0, 99), // skipped
			insts.MUL(11, 5, 6),   // x11 = 42
			insts.LW(12, 1, 0),    // x12 = 7
			insts.ADD(10, 11, 12), // a0 = 49
			insts.ECALL(),
		},
		ExpectedExit: 49,
	}
}
