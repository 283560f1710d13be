// Package unithydro generates unit hydrographs: the characteristic discharge
// response of a watershed to 1 mm of effective rainfall.
//
// Four generators are provided: the SCS (NRCS) dimensionless unit
// hydrograph, the Nash cascade of linear reservoirs, the Clark
// time-area/linear-reservoir model, and the Snyder synthetic unit
// hydrograph. Nash and Clark produce an instantaneous unit hydrograph (IUH)
// that is converted to a finite rainfall duration D by the S-curve
// shift-and-difference method; SCS and Snyder produce finite-duration
// hydrographs directly.
package unithydro

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// ErrInvalidParameter is wrapped by all construction and input validation
// failures in this package.
var ErrInvalidParameter = errors.New("invalid parameter")

// UnitHydrograph is the discharge response to 1 mm of effective rainfall
// falling uniformly over the watershed during a finite duration D.
// Ordinates are in m³/s per mm of rainfall.
type UnitHydrograph struct {
	TimesMin      []float64
	OrdinatesM3s  []float64
	PeakM3s       float64
	TimeToPeakMin float64
	TimeBaseMin   float64
	LagTimeMin    float64
	DurationMin   float64
	TimestepMin   float64
}

// Steps returns the number of ordinates.
func (u *UnitHydrograph) Steps() int { return len(u.TimesMin) }

// VolumeM3 integrates the hydrograph over time (trapezoid rule, seconds).
// For a mass-conserving unit hydrograph over an area A km² the result is
// close to A*1000 m³ (1 mm of depth over the watershed).
func (u *UnitHydrograph) VolumeM3() float64 {
	if len(u.TimesMin) < 2 {
		return 0
	}
	seconds := make([]float64, len(u.TimesMin))
	for i, t := range u.TimesMin {
		seconds[i] = t * 60.0
	}
	return integrate.Trapezoidal(seconds, u.OrdinatesM3s)
}

// IUH is an instantaneous unit hydrograph: the continuous response to a unit
// impulse of effective rainfall, discretized on a time grid. Ordinates are
// in 1/min and integrate to 1 over the full response.
type IUH struct {
	TimesMin        []float64
	OrdinatesPerMin []float64
	PeakPerMin      float64
	TimeToPeakMin   float64
	TimestepMin     float64
}

// Steps returns the number of ordinates.
func (u *IUH) Steps() int { return len(u.TimesMin) }

// Integral returns the trapezoid integral of the IUH over its time grid.
// A well-resolved IUH integrates to approximately 1.
func (u *IUH) Integral() float64 {
	if len(u.TimesMin) < 2 {
		return 0
	}
	return integrate.Trapezoidal(u.TimesMin, u.OrdinatesPerMin)
}

// Generator is the capability shared by all four unit hydrograph models:
// produce the response to 1 mm of effective rain of duration durationMin
// over areaKm2, discretized at timestepMin.
type Generator interface {
	UnitHydrograph(areaKm2, durationMin, timestepMin float64) (*UnitHydrograph, error)
}

// timeGrid returns times 0, dt, 2dt, ... covering at least totalMin.
func timeGrid(totalMin, timestepMin float64) []float64 {
	steps := int(math.Ceil(totalMin/timestepMin)) + 1
	times := make([]float64, steps)
	for i := range times {
		times[i] = float64(i) * timestepMin
	}
	return times
}

func validateFiniteArgs(areaKm2, durationMin, timestepMin float64) error {
	if areaKm2 <= 0 {
		return fmt.Errorf("%w: area must be positive, got %g km²", ErrInvalidParameter, areaKm2)
	}
	if durationMin <= 0 {
		return fmt.Errorf("%w: rainfall duration must be positive, got %g min", ErrInvalidParameter, durationMin)
	}
	if timestepMin <= 0 {
		return fmt.Errorf("%w: timestep must be positive, got %g min", ErrInvalidParameter, timestepMin)
	}
	return nil
}

// peak locates the maximum ordinate and its time on the grid.
func peak(times, ordinates []float64) (idx int, t, q float64) {
	idx = floats.MaxIdx(ordinates)
	return idx, times[idx], ordinates[idx]
}

// m³ of water deposited by 1 mm of rain over one km².
const cubicMetersPerMmKm2 = 1000.0
