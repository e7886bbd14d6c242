package pathresolve

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

const (
	// ConventionDir is the per-user and per-platform directory name.
	ConventionDir = ".fautil"
	// UnixRoot is the system configuration root outside Windows.
	UnixRoot = "/etc/fautil"
)

// Well-known file names, in probing order for config documents.
const (
	ConfigYAML = "config.yaml"
	ConfigJSON = "config.json"
	Dotenv     = ".env"
)

// ConfigNames lists the config document names in priority order.
var ConfigNames = []string{ConfigYAML, ConfigJSON}

// NotFoundError is returned when an explicitly supplied path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config not found: %s", e.Path)
}

// Resolver computes and probes candidate paths.
type Resolver struct {
	fs     afero.Fs
	getwd  func() (string, error)
	home   func() (string, error)
	getenv func(string) string
	goos   string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWorkingDir pins the working directory instead of os.Getwd.
func WithWorkingDir(dir string) Option {
	return func(r *Resolver) {
		r.getwd = func() (string, error) { return dir, nil }
	}
}

// WithHomeDir pins the home directory instead of os.UserHomeDir.
func WithHomeDir(dir string) Option {
	return func(r *Resolver) {
		r.home = func() (string, error) { return dir, nil }
	}
}

// WithGetenv overrides the environment lookup used for %APPDATA%.
func WithGetenv(getenv func(string) string) Option {
	return func(r *Resolver) {
		r.getenv = getenv
	}
}

// WithGOOS overrides runtime.GOOS.
func WithGOOS(goos string) Option {
	return func(r *Resolver) {
		r.goos = goos
	}
}

// New creates a Resolver probing fs.
func New(fs afero.Fs, opts ...Option) *Resolver {
	r := &Resolver{
		fs:     fs,
		getwd:  os.Getwd,
		home:   os.UserHomeDir,
		getenv: os.Getenv,
		goos:   runtime.GOOS,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SearchDirs returns the default search directories in priority order.
// Directories that cannot be determined are left out.
func (r *Resolver) SearchDirs() []string {
	var dirs []string
	if cwd, err := r.getwd(); err == nil && cwd != "" {
		dirs = append(dirs, cwd)
	}
	if home, err := r.home(); err == nil && home != "" {
		dirs = append(dirs, filepath.Join(home, ConventionDir))
	}
	if r.goos == "windows" {
		if appData := r.getenv("APPDATA"); appData != "" {
			dirs = append(dirs, filepath.Join(appData, ConventionDir))
		}
	} else {
		dirs = append(dirs, UnixRoot)
	}
	return dirs
}

// Candidates lists the paths Locate would probe, in order.
func (r *Resolver) Candidates(names []string, explicit string) ([]string, error) {
	if explicit != "" {
		isDir, err := afero.IsDir(r.fs, explicit)
		if err != nil {
			return nil, &NotFoundError{Path: explicit}
		}
		if !isDir {
			return []string{explicit}, nil
		}
		return joinAll([]string{explicit}, names), nil
	}
	return joinAll(r.SearchDirs(), names), nil
}

// Locate returns the first existing regular file among the candidates, or ""
// when there is none. An explicit path that does not exist, or a directory
// holding none of names, fails with *NotFoundError.
func (r *Resolver) Locate(names []string, explicit string) (string, error) {
	candidates, err := r.Candidates(names, explicit)
	if err != nil {
		return "", err
	}
	for _, candidate := range candidates {
		if r.isFile(candidate) {
			return candidate, nil
		}
	}
	if explicit != "" {
		return "", &NotFoundError{Path: explicit}
	}
	return "", nil
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && !info.IsDir()
}

func joinAll(dirs, names []string) []string {
	out := make([]string, 0, len(dirs)*len(names))
	for _, dir := range dirs {
		for _, name := range names {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out
}
