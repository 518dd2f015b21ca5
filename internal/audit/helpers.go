package audit

import (
	"fmt"

	"github.com/darmiel/fedmap/internal/buildinfo"
)

// CreateUserAgent builds the User-Agent sent with every access API request,
// so remote-side request logs can be correlated with the local audit trail.
func CreateUserAgent(runID string) string {
	if runID == "" {
		return fmt.Sprintf("fedmap/%s", buildinfo.Version)
	}
	return fmt.Sprintf("fedmap/%s (run_id=%s)", buildinfo.Version, runID)
}
