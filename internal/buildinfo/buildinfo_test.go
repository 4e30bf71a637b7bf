package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	got := String()
	if !strings.HasPrefix(got, "fastestraces v1.2.3 (commit=none") {
		t.Fatalf("unexpected: %q", got)
	}
}
