package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// LevelTrace is the logging level for per-cycle trace records. It sits
// below Debug so traces never show up in normal output.
const LevelTrace = slog.LevelDebug - 4

// SlogObserver returns an observer that logs every tick to logger at
// LevelTrace.
func SlogObserver(logger *slog.Logger) Observer {
	return func(info TickInfo) {
		logger.Log(context.Background(), LevelTrace, "tick",
			"cycle", info.Cycle,
			"pc", fmt.Sprintf("0x%08x", info.PC),
			"state", info.State.String(),
		)
	}
}
