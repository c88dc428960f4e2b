package entrypoint

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/armadaproject/sweeper/pkg/override"
)

// Exec is an entrypoint running an external command and decoding the override sets the command prints on its
// standard output, in the format read by File.
type Exec struct {
	name string
	Cmd  string
	Args []string
	Env  []string

	// Stubbable for testing
	environ func() []string
}

func NewExec(name string, cmd string, args []string) *Exec {
	return &Exec{
		name:    name,
		Cmd:     cmd,
		Args:    args,
		environ: os.Environ,
	}
}

func (e *Exec) Name() string {
	return e.name
}

func (e *Exec) Configure() ([]override.Set, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := exec.Command(e.Cmd, e.Args...)
	cmd.Env = append(e.environ(), e.Env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = errors.WithMessage(err, msg)
		}
		return nil, &ErrEntrypointExecution{Name: e.name, Err: errors.WithMessagef(err, "running %s", e.Cmd)}
	}

	sets, err := DecodeSets(stdout.Bytes())
	if err != nil {
		return nil, &ErrEntrypointExecution{Name: e.name, Err: errors.WithMessage(err, "decoding command output")}
	}
	return sets, nil
}
