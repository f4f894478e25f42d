package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathsConfig is the single source of truth for file paths. BaseDir comes
// from configuration; everything else is derived from it during resolve.
//
// Layout:
//
//	<base>/
//	  ├── snapshots/   (inventory JSON, overwritten per upload)
//	  ├── reports/     (missing-stations exports)
//	  └── uploads/     (spooled upload files, transient)
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR" default:"data"`

	// Derived during resolve; not configurable directly.
	SnapshotsDir string `yaml:"-"`
	ReportsDir   string `yaml:"-"`
	UploadsDir   string `yaml:"-"`
}

// resolve makes BaseDir absolute and derives the subdirectories.
func (p *PathsConfig) resolve() error {
	if p.BaseDir == "" {
		p.BaseDir = "data"
	}
	abs, err := filepath.Abs(p.BaseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base dir: %w", err)
	}
	p.BaseDir = abs
	p.SnapshotsDir = filepath.Join(abs, "snapshots")
	p.ReportsDir = filepath.Join(abs, "reports")
	p.UploadsDir = filepath.Join(abs, "uploads")
	return nil
}

// EnsureDirectories creates every derived directory.
func (p *PathsConfig) EnsureDirectories() error {
	for _, dir := range []string{p.BaseDir, p.SnapshotsDir, p.ReportsDir, p.UploadsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SnapshotPath returns the JSON snapshot path for a source tag.
func (p *PathsConfig) SnapshotPath(source string) string {
	return filepath.Join(p.SnapshotsDir, source+".json")
}

// ReportPath returns the path of an export artifact.
func (p *PathsConfig) ReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}
