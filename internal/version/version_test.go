package version

import (
	"bytes"
	"testing"
)

func TestPrint(t *testing.T) {
	Version, GitSHA, BuildTime = "1.2.3", "abc123", "2025-01-01"
	t.Cleanup(func() { Version, GitSHA, BuildTime = "dev", "unknown", "unknown" })

	var buf bytes.Buffer
	Print(&buf)
	if got, want := buf.String(), "motion 1.2.3 (abc123, built 2025-01-01)\n"; got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}
