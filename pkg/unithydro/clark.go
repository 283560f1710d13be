package unithydro

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Clark models watershed response as translation through a time-area
// histogram followed by attenuation in a single linear reservoir with
// storage coefficient R.
//
// The time-area curve is the HEC-HMS standard for an elliptical watershed:
//
//	Acum(t) = 1.414*(t/Tc)^0.5 - 0.414*(t/Tc)^1.5   for t <= Tc, else 1.
//
// Routing uses O[i] = O[i-1] + C1*(I[i] + I[i-1] - 2*O[i-1]) with
// C1 = Δt/(2R + Δt).
//
// Reference: Clark, C.O. (1945). Storage and the Unit Hydrograph.
type Clark struct {
	TcMin float64
	RMin  float64
}

// NewClark validates the time of concentration and storage coefficient.
func NewClark(tcMin, rMin float64) (*Clark, error) {
	if tcMin <= 0 {
		return nil, fmt.Errorf("%w: time of concentration must be positive, got %g min", ErrInvalidParameter, tcMin)
	}
	if rMin <= 0 {
		return nil, fmt.Errorf("%w: storage coefficient R must be positive, got %g min", ErrInvalidParameter, rMin)
	}
	return &Clark{TcMin: tcMin, RMin: rMin}, nil
}

// ClarkFromRecession derives R from an observed daily recession constant
// (flow ratio across one day): R = -1440/ln(kr).
func ClarkFromRecession(tcMin, recessionConstant float64) (*Clark, error) {
	if recessionConstant <= 0 || recessionConstant >= 1 {
		return nil, fmt.Errorf("%w: recession constant must be in (0, 1), got %g", ErrInvalidParameter, recessionConstant)
	}
	return NewClark(tcMin, -1440.0/math.Log(recessionConstant))
}

// LagTimeMin approximates the lag as Tc/2 + R: the time-area centroid sits
// near half the time of concentration and the reservoir adds its constant.
func (c *Clark) LagTimeMin() float64 { return c.TcMin/2.0 + c.RMin }

// CumulativeTimeArea returns the fraction of watershed area contributing to
// outlet flow at time t.
func (c *Clark) CumulativeTimeArea(tMin float64) float64 {
	if tMin <= 0 {
		return 0
	}
	if tMin >= c.TcMin {
		return 1
	}
	r := tMin / c.TcMin
	return 1.414*math.Sqrt(r) - 0.414*math.Pow(r, 1.5)
}

// routeReservoir pushes the translation hydrograph through the linear
// reservoir. O[0] = 0.
func (c *Clark) routeReservoir(inflow []float64, timestepMin float64) []float64 {
	c1 := timestepMin / (2.0*c.RMin + timestepMin)
	outflow := make([]float64, len(inflow))
	for i := 1; i < len(inflow); i++ {
		outflow[i] = outflow[i-1] + c1*(inflow[i]+inflow[i-1]-2.0*outflow[i-1])
	}
	return outflow
}

// IUH generates the Clark instantaneous unit hydrograph: incremental
// time-area histogram routed through the reservoir, normalized so the
// discrete integral is exactly 1. Pass durationMin <= 0 to size the grid
// automatically (Tc + 5R).
func (c *Clark) IUH(timestepMin, durationMin float64) (*IUH, error) {
	if timestepMin <= 0 {
		return nil, fmt.Errorf("%w: timestep must be positive, got %g min", ErrInvalidParameter, timestepMin)
	}
	if durationMin <= 0 {
		durationMin = c.TcMin + 5.0*c.RMin
	}

	times := timeGrid(durationMin, timestepMin)

	translation := make([]float64, len(times))
	prev := 0.0
	for i, t := range times {
		cum := c.CumulativeTimeArea(t)
		translation[i] = cum - prev
		prev = cum
	}

	ordinates := c.routeReservoir(translation, timestepMin)

	if total := floats.Sum(ordinates) * timestepMin; total > 0 {
		floats.Scale(1.0/total, ordinates)
	}

	_, tPeak, qPeak := peak(times, ordinates)
	return &IUH{
		TimesMin:        times,
		OrdinatesPerMin: ordinates,
		PeakPerMin:      qPeak,
		TimeToPeakMin:   tPeak,
		TimestepMin:     timestepMin,
	}, nil
}

// UnitHydrograph converts the IUH to a D-minute unit hydrograph by the
// discrete S-curve method: cumulate the IUH, shift by D, difference, and
// scale to m³/s per mm over the watershed area.
func (c *Clark) UnitHydrograph(areaKm2, durationMin, timestepMin float64) (*UnitHydrograph, error) {
	if err := validateFiniteArgs(areaKm2, durationMin, timestepMin); err != nil {
		return nil, err
	}

	totalMin := c.TcMin + 5.0*c.RMin + durationMin
	iuh, err := c.IUH(timestepMin, totalMin)
	if err != nil {
		return nil, err
	}

	sCurve := make([]float64, len(iuh.OrdinatesPerMin))
	floats.CumSum(sCurve, iuh.OrdinatesPerMin)
	floats.Scale(timestepMin, sCurve)

	shift := int(math.Round(durationMin / timestepMin))
	scale := areaKm2 * cubicMetersPerMmKm2 / 60.0

	ordinates := make([]float64, len(sCurve))
	for i := range sCurve {
		shifted := 0.0
		if j := i - shift; j >= 0 {
			shifted = sCurve[j]
		}
		ordinates[i] = (sCurve[i] - shifted) / durationMin * scale
	}

	_, tPeak, qPeak := peak(iuh.TimesMin, ordinates)
	return &UnitHydrograph{
		TimesMin:      iuh.TimesMin,
		OrdinatesM3s:  ordinates,
		PeakM3s:       qPeak,
		TimeToPeakMin: tPeak,
		TimeBaseMin:   iuh.TimesMin[len(iuh.TimesMin)-1],
		LagTimeMin:    c.LagTimeMin(),
		DurationMin:   durationMin,
		TimestepMin:   timestepMin,
	}, nil
}
