package keycast

import (
	"fmt"
	"log/slog"
	"time"
)

// debugLog reports per-frame draw stats. Only called in debug mode.
func (s *Scene) debugLog(stats drawStats, elapsed time.Duration) {
	slog.Debug("frame drawn",
		"meshes", stats.meshes,
		"texts", stats.texts,
		"triangles", stats.triangles,
		"elapsed", elapsed,
		"step", s.player.Cursor(),
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("keycast debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugMaxTreeDepth is the depth above which AddChild logs a warning.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		slog.Warn("tree depth exceeds threshold", "depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}
