package entrypoint

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/sweeper/pkg/sweep"
)

// Materialize resolves every name, then invokes each entrypoint once and collects its override sets into a
// source named after the entrypoint. Every name is resolved before any entrypoint runs, so an unknown name never
// leaves a partially configured sweep behind. A name listed more than once is invoked once and yields the same
// sets every time. The first error aborts materialization.
func Materialize(resolver Resolver, names []string) ([]sweep.Source, error) {
	entrypoints := make([]Entrypoint, len(names))
	for i, name := range names {
		e, err := resolver.Resolve(name)
		if err != nil {
			var resolutionErr *ErrEntrypointResolution
			if errors.As(err, &resolutionErr) {
				return nil, err
			}
			return nil, &ErrEntrypointResolution{Name: name, Reason: err.Error()}
		}
		entrypoints[i] = e
	}

	sources := make([]sweep.Source, len(entrypoints))
	configured := make(map[string]sweep.Source, len(entrypoints))
	for i, e := range entrypoints {
		if source, ok := configured[names[i]]; ok {
			sources[i] = source
			continue
		}
		sets, err := e.Configure()
		if err != nil {
			var executionErr *ErrEntrypointExecution
			if errors.As(err, &executionErr) {
				return nil, err
			}
			return nil, &ErrEntrypointExecution{Name: e.Name(), Err: err}
		}
		log.WithField("entrypoint", e.Name()).Debugf("entrypoint returned %d override sets", len(sets))
		sources[i] = sweep.NewSource(e.Name(), sets)
		configured[names[i]] = sources[i]
	}
	return sources, nil
}
