package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "v9.9.9"

	if got := String(); !strings.Contains(got, "version: v9.9.9") {
		t.Errorf("String() = %q", got)
	}
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v9.9.9") {
		t.Errorf("Template() = %q", got)
	}
	if got := UserAgent(); got != "gridboard/v9.9.9" {
		t.Errorf("UserAgent() = %q", got)
	}
}
