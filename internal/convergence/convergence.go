// Package convergence persists the router's convergence log to a shared,
// append-only file, in a fixed line format compatible with existing
// analysis scripts.
package convergence

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/LuisLgl/Estado-de-Enlace/internal/routing"
	"github.com/LuisLgl/Estado-de-Enlace/util/logger"
)

// Path is the fixed, shared location convergence data is appended to.
const Path = "/shared_data/testesConvergencia/convergence_data.txt"

// Writer flushes a Router's convergence log to Path.
type Writer struct {
	path string
}

// NewWriter constructs a Writer for the default shared path.
func NewWriter() *Writer {
	return &Writer{path: Path}
}

// Flush appends every sample currently queued on router to the
// convergence file and, only on success, clears exactly those samples
// from the router.
func (w *Writer) Flush(routerID string, router *routing.Router) {
	samples := router.ConvergenceLogSnapshot()
	if len(samples) == 0 {
		return
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		logger.Warnf("convergence: failed to create %s: %v", filepath.Dir(w.path), err)
		return
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Warnf("convergence: failed to open %s: %v", w.path, err)
		return
	}
	defer f.Close()

	for _, sample := range samples {
		line := fmt.Sprintf(" Roteador : %s  Tempo : %.2f  Roteadores Descobertos : %d\n",
			routerID, sample.ElapsedSeconds, sample.RouterCount)
		if _, err := f.WriteString(line); err != nil {
			logger.Warnf("convergence: write error: %v", err)
			return
		}
	}

	logger.Debugf("convergence: flushed %s worth of samples (%d routers known)",
		humanize.Comma(int64(len(samples))), samples[len(samples)-1].RouterCount)

	router.ClearConvergenceLog(len(samples))
}
