// Package examples holds the entrypoints sweepctl registers out of the box.
package examples

import (
	"github.com/armadaproject/sweeper/pkg/entrypoint"
	"github.com/armadaproject/sweeper/pkg/sweep"
)

const (
	MultilayerName = "multilayer"
	DropoutName    = "dropout"
	LayeredName    = "layered"
)

// RegisterAll adds every example entrypoint to r.
func RegisterAll(r *entrypoint.Registry) error {
	for _, e := range []entrypoint.Entrypoint{
		entrypoint.New(MultilayerName, Multilayer),
		entrypoint.New(DropoutName, Dropout),
		entrypoint.FromSource(LayeredName, Layered),
	} {
		if err := r.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// Multilayer sweeps over networks of one to three layers, every layer having either 32 or 64 hidden units.
func Multilayer() ([][]entrypoint.Pair, error) {
	var sets [][]entrypoint.Pair
	for numLayers := 1; numLayers <= 3; numLayers++ {
		for _, hidden := range product([]int{32, 64}, numLayers) {
			sets = append(sets, []entrypoint.Pair{
				{Key: "num_layers", Value: numLayers},
				{Key: "num_hidden", Value: hidden},
			})
		}
	}
	return sets, nil
}

// Dropout adds a dropout rate to the configuration.
func Dropout() ([][]entrypoint.Pair, error) {
	var sets [][]entrypoint.Pair
	for _, rate := range []float64{0.1, 0.5} {
		sets = append(sets, []entrypoint.Pair{{Key: "+dropout", Value: rate}})
	}
	return sets, nil
}

// Layered combines Multilayer with Dropout, every architecture being tried with every dropout rate.
func Layered() (sweep.Source, error) {
	multilayer, err := entrypoint.New(MultilayerName, Multilayer).Configure()
	if err != nil {
		return sweep.Source{}, err
	}
	dropout, err := entrypoint.New(DropoutName, Dropout).Configure()
	if err != nil {
		return sweep.Source{}, err
	}
	return sweep.MergeOverrides(
		sweep.NewSource(MultilayerName, multilayer),
		sweep.NewSource(DropoutName, dropout),
	), nil
}

// product returns every sequence of length n drawn from choices, the last position varying fastest.
func product(choices []int, n int) [][]int {
	out := [][]int{{}}
	for i := 0; i < n; i++ {
		next := make([][]int, 0, len(out)*len(choices))
		for _, prefix := range out {
			for _, c := range choices {
				seq := make([]int, len(prefix), len(prefix)+1)
				copy(seq, prefix)
				next = append(next, append(seq, c))
			}
		}
		out = next
	}
	return out
}
