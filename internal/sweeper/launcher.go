package sweeper

import (
	"io"

	"github.com/pkg/errors"

	"github.com/armadaproject/sweeper/internal/sweeper/configuration"
	"github.com/armadaproject/sweeper/pkg/launcher"
)

// NewLauncher builds the launcher selected by config. Job output and dry run listings are written to out.
func NewLauncher(config configuration.LauncherConfig, out io.Writer) (launcher.Launcher, error) {
	switch config.Type {
	case configuration.PrintLauncher:
		return launcher.NewPrintLauncher(out), nil
	case configuration.LocalLauncher:
		l, err := launcher.NewLocalLauncher(config.Command, config.Parallelism, config.FailFast, config.Timeout)
		if err != nil {
			return nil, err
		}
		l.Retries = config.Retries
		l.RetryDelay = config.RetryDelay
		l.SetOutput(out, out)
		return l, nil
	default:
		return nil, errors.Errorf("unknown launcher type %q", config.Type)
	}
}
