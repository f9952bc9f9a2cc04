// Package testutil provides shared test helpers for building preset trees and
// capturing log output.
package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/presetgen/internal/console"
)

// ValidPreset is a preset file with all five fields set.
const ValidPreset = "name=Server1\nip=127.0.0.1\nport=7777\nclient_version=1.0\nencryption=yes"

// WriteTree creates files under root. Keys are slash-separated relative paths.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// Logger returns a trace-level console logger writing into the returned buffer.
func Logger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return console.New(&buf, &console.Options{Color: console.ColorNever}), &buf
}

// Lines returns the log lines in buf that start with the given level tag,
// e.g. "[ERROR]".
func Lines(buf *bytes.Buffer, tag string) []string {
	var out []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, tag+" ") {
			out = append(out, line)
		}
	}
	return out
}
