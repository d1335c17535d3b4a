package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/log"
)

// captureStdout redirects status output to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// testCLI returns a CLI with a quiet logger and no user config.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	return New(&bytes.Buffer{}, log.InfoLevel)
}

// shortSocket returns a socket path short enough for sun_path limits.
func shortSocket(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "gbc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir + "/s.sock"
}

// writeConfig writes a TOML file and points c at it.
func writeConfig(t *testing.T, c *CLI, body string) string {
	t.Helper()
	path := t.TempDir() + "/gridboard.toml"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	c.configPath = path
	return path
}
