package slices

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]string{}, Batch([]string{}, 1))
	assert.Equal(t, [][]string{{"a"}}, Batch([]string{"a"}, 1))
	assert.Equal(t, [][]string{{"a"}}, Batch([]string{"a"}, 10))
	assert.Equal(t, [][]string{{"a"}, {"b"}}, Batch([]string{"a", "b"}, 1))
	assert.Equal(t, [][]string{{"a", "b"}}, Batch([]string{"a", "b"}, 2))
	assert.Equal(t, [][]string{{"a", "b"}}, Batch([]string{"a", "b"}, 3))
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e"}}, Batch([]string{"a", "b", "c", "d", "e"}, 3))
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e", "f"}}, Batch([]string{"a", "b", "c", "d", "e", "f"}, 3))
}

func TestBatch_AppendDoesNotClobberNextBatch(t *testing.T) {
	batches := Batch([]int{1, 2, 3, 4}, 2)
	_ = append(batches[0], 100)
	assert.Equal(t, []int{3, 4}, batches[1])
}

func TestBatch_InvalidSize(t *testing.T) {
	assert.Panics(t, func() { Batch([]int{1}, 0) })
}

func TestMap(t *testing.T) {
	toString := func(val int) string { return fmt.Sprintf("%d", val) }
	input := []int{1, 3, 5, 7, 9}
	expectedOutput := []string{"1", "3", "5", "7", "9"}

	output := Map(input, toString)
	assert.Equal(t, expectedOutput, output)
}

func TestMapEmptyList(t *testing.T) {
	toString := func(val int) string { return fmt.Sprintf("%d", val) }
	input := []int{}
	expectedOutput := []string{}

	output := Map(input, toString)
	assert.Equal(t, expectedOutput, output)
}

func TestFilter(t *testing.T) {
	isEven := func(val int) bool { return val%2 == 0 }
	assert.Equal(t, []int{2, 4}, Filter([]int{1, 2, 3, 4, 5}, isEven))
	assert.Equal(t, []int{}, Filter([]int{1, 3}, isEven))
}
