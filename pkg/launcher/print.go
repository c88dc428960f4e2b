package launcher

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/armadaproject/sweeper/pkg/sweep"
)

// PrintLauncher writes one line per job instead of running anything.
type PrintLauncher struct {
	Out io.Writer
}

func NewPrintLauncher(out io.Writer) *PrintLauncher {
	return &PrintLauncher{Out: out}
}

func (l *PrintLauncher) Launch(ctx context.Context, jobs []sweep.Job, initialJobIdx int) ([]JobReturn, error) {
	returns := make([]JobReturn, 0, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return returns, err
		}
		overrides := job.Overrides().Strings()
		if _, err := fmt.Fprintf(l.Out, "#%d %s\n", initialJobIdx+i, strings.Join(overrides, " ")); err != nil {
			return returns, err
		}
		returns = append(returns, JobReturn{
			Index:     initialJobIdx + i,
			Overrides: overrides,
			Status:    StatusCompleted,
		})
	}
	return returns, nil
}
