package projection

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"

	"CrestCast/internal/model"
)

// RandSource supplies standard normal samples. *rand.Rand satisfies it.
type RandSource interface {
	NormFloat64() float64
}

// NewSeededSource returns a reproducible source for seed.
func NewSeededSource(seed int64) RandSource {
	return rand.New(rand.NewSource(seed))
}

// newUnseededSource returns a private source seeded from crypto/rand.
func newUnseededSource() (RandSource, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("seed random source: %w", err)
	}
	return NewSeededSource(int64(binary.BigEndian.Uint64(buf[:]))), nil
}

// ReturnGenerator produces a paths x horizon matrix of raw annual returns.
type ReturnGenerator interface {
	Generate(a model.ReturnAssumption, horizon int) [][]float64
}

// DeterministicReturns yields a single path where every year earns the mean.
type DeterministicReturns struct{}

func (DeterministicReturns) Generate(a model.ReturnAssumption, horizon int) [][]float64 {
	path := make([]float64, horizon)
	for i := range path {
		path[i] = a.Mean
	}
	return [][]float64{path}
}

// MonteCarloReturns draws Trials independent paths of Normal(mean, std_dev)
// samples, trial by trial and year by year.
type MonteCarloReturns struct {
	Trials int
	Src    RandSource
}

func (m MonteCarloReturns) Generate(a model.ReturnAssumption, horizon int) [][]float64 {
	paths := make([][]float64, m.Trials)
	for t := range paths {
		path := make([]float64, horizon)
		for y := range path {
			path[y] = a.Mean + a.StdDev*m.Src.NormFloat64()
		}
		paths[t] = path
	}
	return paths
}
