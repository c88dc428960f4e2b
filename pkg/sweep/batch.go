package sweep

import (
	"github.com/armadaproject/sweeper/internal/common/slices"
)

// Batch splits jobs into contiguous launch batches of at most maxBatchSize jobs. A nil or non-positive
// maxBatchSize means no limit: all jobs go into a single batch. No jobs means no batches.
func Batch[T any](jobs []T, maxBatchSize *int) [][]T {
	if len(jobs) == 0 {
		return [][]T{}
	}
	if maxBatchSize == nil || *maxBatchSize <= 0 {
		return [][]T{jobs}
	}
	return slices.Batch(jobs, *maxBatchSize)
}
