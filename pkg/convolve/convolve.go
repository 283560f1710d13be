// Package convolve turns an effective-precipitation series and a unit
// hydrograph into a direct-runoff hydrograph by discrete convolution.
package convolve

import (
	"errors"
	"fmt"

	"github.com/hydrolab/hydrograph/pkg/unithydro"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidInput is wrapped by all input validation failures in this
// package.
var ErrInvalidInput = errors.New("invalid convolution input")

// Hydrograph is the direct-runoff response of a watershed to a storm.
type Hydrograph struct {
	TimesMin      []float64
	DischargeM3s  []float64
	PeakM3s       float64
	TimeToPeakMin float64
	TotalVolumeM3 float64
	TimestepMin   float64
}

// Steps returns the number of ordinates.
func (h *Hydrograph) Steps() int { return len(h.TimesMin) }

// Discrete convolves an effective-precipitation series (mm per interval)
// with a unit hydrograph sampled on the same timestep. The result has
// len(effectiveMm) + uh.Steps() - 1 ordinates:
//
//	Q[i] = Σ_j Pe[j] * U[i-j]
//
// Both inputs must be non-empty and share timestepMin; the unit hydrograph
// timestep is checked against it.
func Discrete(effectiveMm []float64, uh *unithydro.UnitHydrograph, timestepMin float64) (*Hydrograph, error) {
	if len(effectiveMm) == 0 {
		return nil, fmt.Errorf("%w: effective precipitation series is empty", ErrInvalidInput)
	}
	if uh == nil || uh.Steps() == 0 {
		return nil, fmt.Errorf("%w: unit hydrograph is empty", ErrInvalidInput)
	}
	if timestepMin <= 0 {
		return nil, fmt.Errorf("%w: timestep must be positive, got %g min", ErrInvalidInput, timestepMin)
	}
	if uh.TimestepMin != timestepMin {
		return nil, fmt.Errorf("%w: unit hydrograph timestep %g min does not match series timestep %g min",
			ErrInvalidInput, uh.TimestepMin, timestepMin)
	}
	for i, pe := range effectiveMm {
		if pe < 0 {
			return nil, fmt.Errorf("%w: effective precipitation[%d] = %g mm, must be >= 0", ErrInvalidInput, i, pe)
		}
	}

	n := len(effectiveMm) + uh.Steps() - 1
	discharge := make([]float64, n)
	for j, pe := range effectiveMm {
		if pe == 0 {
			continue
		}
		for k, u := range uh.OrdinatesM3s {
			discharge[j+k] += pe * u
		}
	}

	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * timestepMin
	}

	peakIdx := floats.MaxIdx(discharge)
	return &Hydrograph{
		TimesMin:      times,
		DischargeM3s:  discharge,
		PeakM3s:       discharge[peakIdx],
		TimeToPeakMin: times[peakIdx],
		TotalVolumeM3: floats.Sum(discharge) * timestepMin * 60.0,
		TimestepMin:   timestepMin,
	}, nil
}
