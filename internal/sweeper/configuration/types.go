package configuration

import (
	_ "embed"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	PrintLauncher = "print"
	LocalLauncher = "local"
)

// DefaultConfig holds the default values of every configuration key.
//
//go:embed config.yaml
var DefaultConfig []byte

type SweeperConfiguration struct {
	Sweeper  SweepConfig
	Launcher LauncherConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
}

type SweepConfig struct {
	// Entrypoints are composed in order after the command line overrides.
	Entrypoints      []string `validate:"dive,required"`
	RemoveDuplicates bool
	// MaxBatchSize is the maximum number of jobs handed to the launcher at once. Nil launches every job in a
	// single batch.
	MaxBatchSize *int `validate:"omitempty,gt=0"`
	// SweepDir is where the sweep configuration is saved. Nothing is saved when empty.
	SweepDir string
}

type LauncherConfig struct {
	Type        string   `validate:"oneof=print local"`
	Command     []string `validate:"required_if=Type local,dive,required"`
	Parallelism int      `validate:"gte=1"`
	FailFast    bool
	// Timeout bounds the run time of a single attempt of a job. Zero means no limit.
	Timeout time.Duration `validate:"gte=0"`
	// Retries is the number of times a failed job is started again.
	Retries    int           `validate:"gte=0"`
	RetryDelay time.Duration `validate:"gte=0"`
}

type MetricsConfig struct {
	// Textfile is a path the sweep metrics are written to in the Prometheus text format, for the node exporter
	// textfile collector. Nothing is written when empty.
	Textfile string
}

type LoggingConfig struct {
	Level string `validate:"oneof=trace debug info warn warning error fatal panic"`
}

func (c *SweeperConfiguration) Validate() error {
	return errors.WithStack(validator.New().Struct(c))
}
