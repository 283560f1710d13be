// Package hyetograph synthesizes design-storm precipitation series from a
// storm total depth and a temporal distribution shape.
package hyetograph

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidStorm is wrapped by all storm construction failures in this
// package.
var ErrInvalidStorm = errors.New("invalid storm")

// Series is a precipitation record: incremental depths per interval and the
// grid they live on.
type Series struct {
	DepthsMm    []float64
	TimestepMin float64
	DurationMin float64
	TotalMm     float64
}

// Steps returns the number of intervals.
func (s *Series) Steps() int { return len(s.DepthsMm) }

func validateStorm(totalMm, durationMin, timestepMin float64) (steps int, err error) {
	if totalMm <= 0 {
		return 0, fmt.Errorf("%w: total depth must be positive, got %g mm", ErrInvalidStorm, totalMm)
	}
	if durationMin <= 0 {
		return 0, fmt.Errorf("%w: duration must be positive, got %g min", ErrInvalidStorm, durationMin)
	}
	if timestepMin <= 0 || timestepMin > durationMin {
		return 0, fmt.Errorf("%w: timestep must be in (0, duration], got %g min for a %g min storm",
			ErrInvalidStorm, timestepMin, durationMin)
	}
	steps = int(durationMin / timestepMin)
	if steps < 1 {
		return 0, fmt.Errorf("%w: storm resolves to zero intervals", ErrInvalidStorm)
	}
	return steps, nil
}

func newSeries(depths []float64, totalMm, durationMin, timestepMin float64) *Series {
	// Rescale so rounding in the shape never loses mass.
	sum := 0.0
	for _, d := range depths {
		sum += d
	}
	if sum > 0 {
		f := totalMm / sum
		for i := range depths {
			depths[i] *= f
		}
	}
	return &Series{
		DepthsMm:    depths,
		TimestepMin: timestepMin,
		DurationMin: durationMin,
		TotalMm:     totalMm,
	}
}

// Block distributes the storm total uniformly over the duration.
func Block(totalMm, durationMin, timestepMin float64) (*Series, error) {
	steps, err := validateStorm(totalMm, durationMin, timestepMin)
	if err != nil {
		return nil, err
	}
	depths := make([]float64, steps)
	for i := range depths {
		depths[i] = totalMm / float64(steps)
	}
	return newSeries(depths, totalMm, durationMin, timestepMin), nil
}

// Triangular distributes the storm as a triangle whose apex sits at
// peakPosition, a fraction of the duration strictly inside (0, 1).
func Triangular(totalMm, durationMin, timestepMin, peakPosition float64) (*Series, error) {
	steps, err := validateStorm(totalMm, durationMin, timestepMin)
	if err != nil {
		return nil, err
	}
	if peakPosition <= 0 || peakPosition >= 1 {
		return nil, fmt.Errorf("%w: peak position must be inside (0, 1), got %g", ErrInvalidStorm, peakPosition)
	}

	// Cumulative fraction of a unit triangle with apex at p:
	// x²/p on [0, p], 1 - (1-x)²/(1-p) on [p, 1].
	cum := func(x float64) float64 {
		switch {
		case x <= 0:
			return 0
		case x >= 1:
			return 1
		case x <= peakPosition:
			return x * x / peakPosition
		default:
			return 1 - (1-x)*(1-x)/(1-peakPosition)
		}
	}

	depths := make([]float64, steps)
	for i := range depths {
		x0 := float64(i) / float64(steps)
		x1 := float64(i+1) / float64(steps)
		depths[i] = totalMm * (cum(x1) - cum(x0))
	}
	return newSeries(depths, totalMm, durationMin, timestepMin), nil
}

// Beta distributes the storm according to a beta(alpha, beta) density over
// the normalized duration. Alpha > beta skews the peak late, beta > alpha
// skews it early.
func Beta(totalMm, durationMin, timestepMin, alpha, beta float64) (*Series, error) {
	steps, err := validateStorm(totalMm, durationMin, timestepMin)
	if err != nil {
		return nil, err
	}
	if alpha <= 0 || beta <= 0 {
		return nil, fmt.Errorf("%w: beta shape parameters must be positive, got alpha=%g beta=%g",
			ErrInvalidStorm, alpha, beta)
	}

	dist := distuv.Beta{Alpha: alpha, Beta: beta}
	depths := make([]float64, steps)
	for i := range depths {
		x0 := float64(i) / float64(steps)
		x1 := float64(i+1) / float64(steps)
		depths[i] = totalMm * (dist.CDF(x1) - dist.CDF(x0))
	}
	return newSeries(depths, totalMm, durationMin, timestepMin), nil
}

// eulerPeakFraction places the Euler type II peak a third of the way into
// the storm.
const eulerPeakFraction = 1.0 / 3.0

// EulerII builds a Euler type II design storm: interval depths fall off as
// rank^-0.7 and are rearranged so the largest sits at a third of the
// duration, the rest alternating outward with the leading limb rising
// monotonically.
func EulerII(totalMm, durationMin, timestepMin float64) (*Series, error) {
	steps, err := validateStorm(totalMm, durationMin, timestepMin)
	if err != nil {
		return nil, err
	}

	ranked := make([]float64, steps)
	for i := range ranked {
		ranked[i] = math.Pow(float64(i+1), -0.7)
	}

	peakIdx := int(math.Round(eulerPeakFraction * float64(steps)))
	if peakIdx >= steps {
		peakIdx = steps - 1
	}

	// Largest block at the peak, then fill positions nearest the peak with
	// the next-largest values so both limbs decay away from it.
	type slot struct {
		idx  int
		dist float64
	}
	slots := make([]slot, 0, steps)
	for i := 0; i < steps; i++ {
		slots = append(slots, slot{idx: i, dist: math.Abs(float64(i - peakIdx))})
	}
	sort.SliceStable(slots, func(a, b int) bool {
		if slots[a].dist != slots[b].dist {
			return slots[a].dist < slots[b].dist
		}
		// Prefer the leading-limb side on ties so the rise stays monotone.
		return slots[a].idx < slots[b].idx
	})

	depths := make([]float64, steps)
	for r, s := range slots {
		depths[s.idx] = ranked[r]
	}
	return newSeries(depths, totalMm, durationMin, timestepMin), nil
}
