package pipeline

import "github.com/sarchlab/r3sim/insts"

// BranchResult is the decode-stage decision for a control transfer.
type BranchResult struct {
	Taken  bool
	Target uint32
}

// BranchUnit resolves control transfers in the decode stage. Operands
// arrive already forwarded, so the next fetch address is known before the
// branch ever reaches execute and taken branches cost no extra cycles.
type BranchUnit struct{}

// NewBranchUnit creates a new branch resolution unit.
func NewBranchUnit() *BranchUnit {
	return &BranchUnit{}
}

// Resolve computes the branch decision for inst at pc with resolved source
// operands rs1 and rs2. Non-branch instructions resolve as not taken.
func (u *BranchUnit) Resolve(inst *insts.Instruction, rs1, rs2, pc uint32) BranchResult {
	switch inst.Op {
	case insts.OpBEQ:
		return BranchResult{Taken: rs1 == rs2, Target: pc + uint32(inst.Imm)}
	case insts.OpBNE:
		return BranchResult{Taken: rs1 != rs2, Target: pc + uint32(inst.Imm)}
	case insts.OpJAL:
		return BranchResult{Taken: true, Target: pc + uint32(inst.Imm)}
	case insts.OpJALR:
		return BranchResult{Taken: true, Target: (rs1 + uint32(inst.Imm)) &^ 1}
	}
	return BranchResult{}
}
