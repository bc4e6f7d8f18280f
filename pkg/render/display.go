package render

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/editplot/pkg/chart"
)

// FileDisplay shows a figure by rendering it to a file and, optionally,
// opening the file in the platform viewer.
type FileDisplay struct {
	// Path is the output file. Empty means a new file named
	// editplot-<uuid>.<format> in the system temp directory.
	Path string
	// Format overrides the format implied by Path. Defaults to png.
	Format string
	// Scale is the raster scale factor. See [WithScale].
	Scale float64
	// Open launches the platform viewer on the written file.
	Open   bool
	Logger *log.Logger

	written string
}

var _ chart.Displayer = (*FileDisplay)(nil)

// Display renders fig. It implements [chart.Displayer].
func (d *FileDisplay) Display(fig *chart.Figure) error {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	format := d.Format
	if format == "" {
		format = normalizeFormat(filepath.Ext(d.Path))
	}
	if format == "" {
		format = FormatPNG
	}
	path := d.Path
	if path == "" {
		path = filepath.Join(os.TempDir(), fmt.Sprintf("editplot-%s.%s", uuid.NewString(), format))
	}

	opts := []Option{WithFormat(format), WithLogger(logger)}
	if d.Scale > 0 {
		opts = append(opts, WithScale(d.Scale))
	}
	if err := Save(fig, path, opts...); err != nil {
		return err
	}
	d.written = path
	logger.Debug("figure written", "path", path, "format", format)

	if d.Open {
		if err := OpenFile(path); err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
	}
	return nil
}

// Written returns the file produced by the last successful Display.
func (d *FileDisplay) Written() string { return d.written }

// OpenFile launches the platform viewer on path without waiting for it.
func OpenFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
