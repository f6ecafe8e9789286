package config

import (
	"os"
	"path/filepath"
	"sync"
)

const (
	envHome = "POM_HOME"

	// projectHome is the home directory created in the working directory.
	projectHome = ".pom"
)

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the directory holding run artifacts and downloaded browsers.
//
// The first of these wins:
//   - $POM_HOME
//   - <prefix> when pom runs from an installed <prefix>/bin/pom
//   - .pom in the working directory, beside the project's pom.yaml
//   - pom under the system temp directory
//
// The result is computed once per process.
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome(processLookup)
	})
	return homeDir
}

// GetArtifactsDir returns <home>/artifacts/<runID>, where check reports and
// failure screenshots are written.
func GetArtifactsDir(runID string) string {
	return filepath.Join(GetHome(), "artifacts", runID)
}

// GetBrowsersDir returns <home>/browsers, the Playwright driver and browser cache.
func GetBrowsersDir() string {
	return filepath.Join(GetHome(), "browsers")
}

// ResetHome forgets the computed home so the next GetHome resolves it again.
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}

// lookup is the process state home resolution reads.
type lookup struct {
	getenv     func(string) string
	executable func() (string, error)
	getwd      func() (string, error)
}

var processLookup = lookup{
	getenv:     os.Getenv,
	executable: os.Executable,
	getwd:      os.Getwd,
}

func resolveHome(l lookup) string {
	if env := l.getenv(envHome); env != "" {
		return env
	}
	if prefix, ok := installPrefix(l.executable); ok {
		return prefix
	}
	if wd, err := l.getwd(); err == nil {
		return filepath.Join(wd, projectHome)
	}
	return filepath.Join(os.TempDir(), "pom")
}

// installPrefix returns <prefix> for a binary at <prefix>/bin/<name>. Symlinks are
// followed, so a pom linked into /usr/local/bin resolves to its own install.
func installPrefix(executable func() (string, error)) (string, bool) {
	exe, err := executable()
	if err != nil {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	bin := filepath.Dir(exe)
	if filepath.Base(bin) != "bin" {
		return "", false
	}
	return filepath.Dir(bin), true
}
