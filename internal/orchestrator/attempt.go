package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agentview/api/internal/cloudflare"
)

// cleanup is one remote delete attempted during teardown.
type cleanup struct {
	name string
	fn   func() error
}

// runAll attempts every cleanup regardless of earlier failures and
// returns the names that failed. A not-found response means the
// resource is already gone and counts as success.
func runAll(ctx context.Context, attempts []cleanup) []string {
	var failed []string
	for _, a := range attempts {
		err := a.fn()
		if err == nil || isNotFound(err) {
			continue
		}
		slog.WarnContext(ctx, fmt.Sprintf("Failed to delete %s", a.name), "error", err)
		failed = append(failed, a.name)
	}
	return failed
}

func isNotFound(err error) bool {
	return cloudflare.IsNotFound(err)
}
