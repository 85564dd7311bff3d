package probe

import (
	"context"
	"time"

	"github.com/agreyes/webmon/internal/target"
)

// detailLimit bounds Outcome.Detail so a single diagnosis can never blow up
// the notification payload.
const detailLimit = 128

// Outcome is the verified availability result for a single target in one
// run. Produced exactly once per target, never mutated.
type Outcome struct {
	Target     target.Target
	Available  bool
	Detail     string
	ObservedAt time.Time
}

// Checker performs a single availability check for a classified target.
//
// Implementations must absorb every per-target fault into an unavailable
// Outcome; they never return errors or panic past this boundary.
type Checker interface {
	Check(ctx context.Context, t target.Target) Outcome
}

// truncate caps s at limit runes, marking the cut with an ellipsis. Applying
// it to an already-truncated value is a no-op.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
