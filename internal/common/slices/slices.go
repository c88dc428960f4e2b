package slices

import (
	"fmt"
)

// Batch splits s into contiguous, non-overlapping slices of batchSize elements; only the last one may be shorter.
// Ordering is preserved: concatenating the batches gives back s.
func Batch[S ~[]E, E any](s S, batchSize int) []S {
	if batchSize < 1 {
		panic(fmt.Sprintf("batchSize is %d but must be at least 1", batchSize))
	}
	n := len(s) / batchSize
	lastBatchSize := len(s) % batchSize
	totalBatches := n
	if lastBatchSize != 0 {
		totalBatches++
	}

	batches := make([]S, totalBatches)
	for i := 0; i < n; i++ {
		batches[i] = s[i*batchSize : (i+1)*batchSize : (i+1)*batchSize]
	}
	if lastBatchSize != 0 {
		batches[n] = s[n*batchSize:]
	}
	return batches
}

// Map returns the result of applying fn to every element of list, in order.
func Map[T any, U any](list []T, fn func(val T) U) []U {
	out := make([]U, len(list))
	for i, val := range list {
		out[i] = fn(val)
	}
	return out
}

// Filter returns the elements of list for which predicate returns true, in order.
func Filter[T any](list []T, predicate func(val T) bool) []T {
	out := make([]T, 0, len(list))
	for _, val := range list {
		if predicate(val) {
			out = append(out, val)
		}
	}
	return out
}
