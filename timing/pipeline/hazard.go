package pipeline

// ForwardOrigin indicates where a forwarded operand value came from.
type ForwardOrigin int

const (
	// ForwardNone means the operand came straight from the register file.
	ForwardNone ForwardOrigin = iota
	// ForwardFromExecute means the value was produced by the instruction in
	// the execute stage this cycle.
	ForwardFromExecute
	// ForwardFromMemWriteback means the value was produced by the
	// instruction in the memory/writeback stage this cycle.
	ForwardFromMemWriteback
)

// Producer is one entry of the forwarding window: an in-flight instruction
// that may supply an operand to the instruction being decoded.
type Producer struct {
	Origin ForwardOrigin
	Rd     uint8  // Destination register of the producer
	Value  uint32 // Produced value, meaningless while Pending
	Valid  bool   // Whether a register-writing producer is present
	// Pending marks a load still in execute: the destination matches but
	// the data has not arrived yet, so the consumer must stall.
	Pending bool
}

// Window is the per-cycle forwarding window, ordered youngest producer
// first. The decode stage scans it in order and takes the first match, so
// the most recent writer of a register always wins.
type Window []Producer

// OperandResult is the outcome of resolving one source operand.
type OperandResult struct {
	Value  uint32
	Origin ForwardOrigin
	// Stall is set when the operand matched a pending producer. The value
	// is not usable this cycle.
	Stall bool
}

// HazardUnit resolves source operands against the forwarding window.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard resolution unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// Resolve returns the value of source register reg for the instruction in
// decode. regValue is the register file's current content; the window holds
// the in-flight producers, youngest first. x0 never forwards and always
// reads as zero.
func (h *HazardUnit) Resolve(reg uint8, regValue uint32, window Window) OperandResult {
	if reg == 0 {
		return OperandResult{Value: regValue}
	}
	for _, p := range window {
		if !p.Valid || p.Rd != reg {
			continue
		}
		if p.Pending {
			return OperandResult{Origin: p.Origin, Stall: true}
		}
		return OperandResult{Value: p.Value, Origin: p.Origin}
	}
	return OperandResult{Value: regValue}
}
