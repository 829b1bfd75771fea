package promptstyle

import (
	"strings"
	"testing"
)

func TestApplySystemIdempotent(t *testing.T) {
	once := ApplySystem("Make cards.", "json")
	twice := ApplySystem(once, "json")
	if once != twice {
		t.Fatalf("ApplySystem should be idempotent")
	}
	if !strings.Contains(once, "JSON object") {
		t.Fatalf("json mode guidance missing: %q", once)
	}
	if ApplySystem("  ", "json") != "" {
		t.Fatalf("blank input should stay blank")
	}
}
