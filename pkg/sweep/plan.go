package sweep

import (
	"github.com/armadaproject/sweeper/pkg/override"
)

// Job is one composed configuration with its zero-based global index in the final job sequence.
type Job struct {
	Index  int
	Merged Merged
}

// Overrides returns the effective overrides of the job.
func (j Job) Overrides() override.Set {
	return j.Merged.Effective()
}

// Options controls the post-processing of the composed sequence.
type Options struct {
	RemoveDuplicates bool
	// MaxBatchSize limits the number of jobs per batch. Nil means a single batch.
	MaxBatchSize *int
}

// Plan is the ordered, deduplicated and batched job list of a sweep.
type Plan struct {
	Jobs    []Job
	Batches [][]Job
	// Composed is the size of the cartesian product before deduplication.
	Composed          int
	DuplicatesRemoved int
}

// NewPlan composes sources, deduplicates the result when requested and splits it into batches.
func NewPlan(sources []Source, opts Options) *Plan {
	it := Compose(sources...)
	dedup := NewDeduplicator(opts.RemoveDuplicates)
	jobs := make([]Job, 0, it.Size())
	composed := 0
	for it.Next() {
		composed++
		m := it.Merged()
		if !dedup.Keep(m) {
			continue
		}
		jobs = append(jobs, Job{Index: len(jobs), Merged: m})
	}
	return &Plan{
		Jobs:              jobs,
		Batches:           Batch(jobs, opts.MaxBatchSize),
		Composed:          composed,
		DuplicatesRemoved: dedup.Removed(),
	}
}

func (p *Plan) Empty() bool {
	return len(p.Jobs) == 0
}
