package convergence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LuisLgl/Estado-de-Enlace/internal/routing"
	"github.com/LuisLgl/Estado-de-Enlace/internal/wire"
)

func TestFlushAppendsAndClearsOnSuccess(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{path: filepath.Join(dir, "convergence_data.txt")}

	r := routing.NewRouter("r1", nil)
	r.IngestLSA(&wire.LSA{RouterID: "r1", SequenceNumber: 1})
	r.IngestLSA(&wire.LSA{RouterID: "r2", SequenceNumber: 1})

	w.Flush("r1", r)

	data, err := os.ReadFile(w.path)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], "Roteador : r1") {
		t.Errorf("unexpected line format: %q", lines[0])
	}

	if got := len(r.ConvergenceLogSnapshot()); got != 0 {
		t.Errorf("convergence log not cleared after successful flush, len = %d", got)
	}
}

func TestFlushIsNoopWhenLogEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "convergence_data.txt")
	w := &Writer{path: path}

	r := routing.NewRouter("r1", nil)
	w.Flush("r1", r)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Flush created an output file despite an empty convergence log")
	}
}
