// Package artifacts lays out and writes the on-disk results of filter runs.
// Each source log gets its own directory under the base dir, holding
// timestamped filtered-log and metadata pairs.
package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aASDa213ASD/noiseless/pkg/storage"
)

const (
	DefaultBaseDir = "data/filtered_logs"

	// FileTimestampLayout names run artifacts, e.g. app_20260822_153012.
	FileTimestampLayout = "20060102_150405"

	FilteredExt = ".filtered.log"
	MetadataExt = ".metadata.json"
)

// ErrOutputConflict is returned when a run directory already exists and the
// caller did not ask to overwrite.
var ErrOutputConflict = errors.New("output directory already exists")

// Stem returns the base name of path without its extension. The stem names
// the run directory and prefixes every artifact inside it.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RunPaths points at the artifacts of a single completed run.
type RunPaths struct {
	Dir          string
	FilteredLog  string
	MetadataFile string
}

// Manager handles placement and writing of filter run artifacts.
type Manager struct {
	baseDir string
	files   storage.Storage
}

// NewManager creates a Manager rooted at baseDir, creating the root if
// needed.
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// RunDir returns the directory that holds all runs for one source log.
func (m *Manager) RunDir(stem string) string {
	return filepath.Join(m.baseDir, stem)
}

// CheckConflict reports ErrOutputConflict when the run directory for stem
// already exists and overwrite is false. Callers run this before any scan
// work starts.
func (m *Manager) CheckConflict(stem string, overwrite bool) error {
	dir := m.RunDir(stem)
	if m.files.HasFile(dir) && !overwrite {
		return fmt.Errorf("%w: %s", ErrOutputConflict, dir)
	}
	return nil
}

// WriteRun persists one run's filtered lines and metadata under the stem's
// run directory. Earlier artifacts are never clobbered: a colliding base
// name gets a numeric suffix.
func (m *Manager) WriteRun(stem string, at time.Time, filtered, metadata []byte) (RunPaths, error) {
	dir := m.RunDir(stem)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return RunPaths{}, fmt.Errorf("failed to create run directory: %w", err)
	}

	base := m.uniqueBase(dir, fmt.Sprintf("%s_%s", stem, at.Format(FileTimestampLayout)))
	paths := RunPaths{
		Dir:          dir,
		FilteredLog:  filepath.Join(dir, base+FilteredExt),
		MetadataFile: filepath.Join(dir, base+MetadataExt),
	}

	if err := m.files.SaveFile(paths.FilteredLog, filtered); err != nil {
		return RunPaths{}, fmt.Errorf("failed to write filtered log: %w", err)
	}
	if err := m.files.SaveFile(paths.MetadataFile, metadata); err != nil {
		return RunPaths{}, fmt.Errorf("failed to write metadata: %w", err)
	}
	return paths, nil
}

// uniqueBase probes base, base_1, base_2, ... until neither artifact name is
// taken. Runs landing in the same second end up on the suffixed names.
func (m *Manager) uniqueBase(dir, base string) string {
	candidate := base
	for n := 1; ; n++ {
		if !m.files.HasFile(filepath.Join(dir, candidate+FilteredExt)) &&
			!m.files.HasFile(filepath.Join(dir, candidate+MetadataExt)) {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
}
