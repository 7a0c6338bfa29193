package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// invariant reports a violation only an implementation bug could cause.
// Debug builds (-tags debug) panic so the bug fails loudly; release
// builds log at Error and the caller no-ops rather than crashing a
// running game.
func invariant(log *zap.Logger, msg string, fields ...zap.Field) {
	if debugChecks {
		panic(fmt.Sprintf("invariant violated: %s", msg))
	}
	if log != nil {
		log.Error("invariant violated: "+msg, fields...)
	}
}
