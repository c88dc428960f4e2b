package entrypoint

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	filePrefix = "file:"
	execPrefix = "exec:"
)

// Resolver locates an entrypoint by name.
type Resolver interface {
	Resolve(name string) (Entrypoint, error)
}

// Registry holds the entrypoints available to sweeps by name. Names that are not registered are resolved as
// files or commands:
//
//	file:<path>, <path>.yaml, <path>.yml, <path>.json  override sets read from a YAML/JSON document
//	<path>.hcl                                          override sets evaluated from an HCL file
//	exec:<command> [args...]                            override sets printed by a command as YAML
type Registry struct {
	mu          sync.RWMutex
	entrypoints map[string]Entrypoint
	// Stubbable for testing
	lookPath func(string) (string, error)
	environ  func() []string
}

func NewRegistry() *Registry {
	return &Registry{
		entrypoints: make(map[string]Entrypoint),
		lookPath:    exec.LookPath,
		environ:     os.Environ,
	}
}

// Default is the registry used by sweepctl.
var Default = NewRegistry()

// Register adds a Go entrypoint under name.
func (r *Registry) Register(name string, fn Func) error {
	return r.Add(New(name, fn))
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Add registers e under its name. Names must be unique and must not look like a file or command reference.
func (r *Registry) Add(e Entrypoint) error {
	name := e.Name()
	if name == "" {
		return errors.New("entrypoint name must not be empty")
	}
	if strings.HasPrefix(name, filePrefix) || strings.HasPrefix(name, execPrefix) {
		return errors.Errorf("entrypoint name %q uses a reserved prefix", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entrypoints[name]; exists {
		return errors.Errorf("entrypoint %q is already registered", name)
	}
	r.entrypoints[name] = e
	return nil
}

// Names returns the registered entrypoint names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := maps.Keys(r.entrypoints)
	slices.Sort(names)
	return names
}

// Resolve locates an entrypoint. Failures are returned as *ErrEntrypointResolution.
func (r *Registry) Resolve(name string) (Entrypoint, error) {
	r.mu.RLock()
	e, ok := r.entrypoints[name]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	switch {
	case strings.HasPrefix(name, execPrefix):
		return r.resolveExec(name)
	case strings.HasPrefix(name, filePrefix):
		return resolveFile(name, strings.TrimPrefix(name, filePrefix))
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return resolveFile(name, name)
	case ".hcl":
		path, err := existingFile(name, name)
		if err != nil {
			return nil, err
		}
		return NewHCL(name, path), nil
	}
	return nil, &ErrEntrypointResolution{Name: name, Reason: "no entrypoint registered under this name"}
}

func (r *Registry) resolveExec(name string) (Entrypoint, error) {
	args := strings.Fields(strings.TrimPrefix(name, execPrefix))
	if len(args) == 0 {
		return nil, &ErrEntrypointResolution{Name: name, Reason: "missing command"}
	}
	cmd, err := r.lookPath(args[0])
	if err != nil {
		return nil, &ErrEntrypointResolution{Name: name, Reason: err.Error()}
	}
	e := NewExec(name, cmd, args[1:])
	e.environ = r.environ
	return e, nil
}

func resolveFile(name string, path string) (Entrypoint, error) {
	path, err := existingFile(name, path)
	if err != nil {
		return nil, err
	}
	if strings.ToLower(filepath.Ext(path)) == ".hcl" {
		return NewHCL(name, path), nil
	}
	return NewFile(name, path), nil
}

func existingFile(name string, path string) (string, error) {
	if path == "" {
		return "", &ErrEntrypointResolution{Name: name, Reason: "missing path"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", &ErrEntrypointResolution{Name: name, Reason: err.Error()}
	}
	if info.IsDir() {
		return "", &ErrEntrypointResolution{Name: name, Reason: path + " is a directory"}
	}
	return path, nil
}
