// Package scscn implements the SCS Curve Number method for estimating
// effective (runoff-producing) precipitation from a rainfall depth series.
//
// The method characterizes a watershed's infiltration potential with a single
// dimensionless Curve Number (CN, 1-100) and converts gross precipitation to
// runoff depth through the maximum retention S and initial abstraction Ia.
//
// Reference: USDA-NRCS National Engineering Handbook, Part 630, Chapter 10.
package scscn

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidParameter is wrapped by all construction and input validation
// failures in this package.
var ErrInvalidParameter = errors.New("invalid parameter")

// AMC represents the Antecedent Moisture Condition of the watershed soil
// before the storm event. It shifts the effective Curve Number up (wet) or
// down (dry) relative to the tabulated AMC-II value.
type AMC int

const (
	// AMCDry is AMC-I: dry soils, lowest runoff potential.
	AMCDry AMC = iota
	// AMCNormal is AMC-II: average conditions, the tabulated CN applies.
	AMCNormal
	// AMCWet is AMC-III: saturated soils, highest runoff potential.
	AMCWet
)

func (a AMC) String() string {
	switch a {
	case AMCDry:
		return "dry"
	case AMCNormal:
		return "normal"
	case AMCWet:
		return "wet"
	}
	return fmt.Sprintf("AMC(%d)", int(a))
}

// ParseAMC maps the condition names used by configuration files and the CLI
// ("dry", "normal", "wet") to an AMC value.
func ParseAMC(s string) (AMC, error) {
	switch s {
	case "dry", "I":
		return AMCDry, nil
	case "normal", "II", "":
		return AMCNormal, nil
	case "wet", "III":
		return AMCWet, nil
	}
	return 0, fmt.Errorf("%w: unknown antecedent moisture condition %q", ErrInvalidParameter, s)
}

// Model holds a validated SCS-CN configuration: the AMC-II Curve Number and
// the initial abstraction coefficient (Ia = coefficient * S). Models are
// immutable after construction.
type Model struct {
	CN            int
	IaCoefficient float64
}

// New validates and returns an SCS-CN model. cn must be in [1,100] and
// iaCoefficient in (0,1]. The conventional coefficient is 0.2.
func New(cn int, iaCoefficient float64) (*Model, error) {
	if cn < 1 || cn > 100 {
		return nil, fmt.Errorf("%w: cn must be in range 1-100, got %d", ErrInvalidParameter, cn)
	}
	if iaCoefficient <= 0 || iaCoefficient > 1 {
		return nil, fmt.Errorf("%w: ia coefficient must be in range (0, 1], got %g", ErrInvalidParameter, iaCoefficient)
	}
	return &Model{CN: cn, IaCoefficient: iaCoefficient}, nil
}

// Result carries the effective precipitation series together with the
// parameters that produced it, for water-balance reporting.
type Result struct {
	// EffectiveMm holds the per-interval effective precipitation, aligned
	// one-to-one with the input series.
	EffectiveMm []float64
	// TotalEffectiveMm is the cumulative effective precipitation.
	TotalEffectiveMm float64
	// RetentionMm is the maximum potential retention S.
	RetentionMm float64
	// InitialAbstractionMm is the depth retained before runoff begins.
	InitialAbstractionMm float64
	// CNUsed is the Curve Number after AMC adjustment.
	CNUsed int
}

// AdjustedCN converts the model's AMC-II Curve Number to the given moisture
// condition using the Chow et al. (1988) conversion formulas. The result is
// rounded and clamped to [1,100].
func (m *Model) AdjustedCN(amc AMC) (int, error) {
	cn := float64(m.CN)
	switch amc {
	case AMCNormal:
		return m.CN, nil
	case AMCDry:
		cn = cn / (2.281 - 0.01281*cn)
	case AMCWet:
		cn = cn / (0.427 + 0.00573*cn)
	default:
		return 0, fmt.Errorf("%w: unknown antecedent moisture condition %d", ErrInvalidParameter, int(amc))
	}
	adjusted := int(math.Round(cn))
	if adjusted < 1 {
		adjusted = 1
	}
	if adjusted > 100 {
		adjusted = 100
	}
	return adjusted, nil
}

// Retention returns the maximum potential retention S in mm for a Curve
// Number: S = 25400/CN - 254. CN=100 is fully impervious and retains nothing.
func Retention(cn int) float64 {
	if cn == 100 {
		return 0.0
	}
	return 25400.0/float64(cn) - 254.0
}

// EffectivePrecipitation converts a per-interval precipitation depth series
// to the effective precipitation series under the given moisture condition.
//
// The transform is applied on cumulative depths,
//
//	Pe_cum = (P_cum - Ia)^2 / (P_cum - Ia + S)  when P_cum > Ia,
//
// (Pe_cum = P_cum - Ia in the degenerate S=0 case), then differenced back to
// per-interval values. Differencing can produce small negative values from
// floating-point noise; these are floored at zero.
func (m *Model) EffectivePrecipitation(depthsMm []float64, amc AMC) (*Result, error) {
	if len(depthsMm) == 0 {
		return nil, fmt.Errorf("%w: precipitation series cannot be empty", ErrInvalidParameter)
	}
	for i, d := range depthsMm {
		if d < 0 || math.IsNaN(d) {
			return nil, fmt.Errorf("%w: precipitation depth at interval %d is %g, must be >= 0", ErrInvalidParameter, i, d)
		}
	}

	cnUsed, err := m.AdjustedCN(amc)
	if err != nil {
		return nil, err
	}
	s := Retention(cnUsed)
	ia := m.IaCoefficient * s

	pCum := make([]float64, len(depthsMm))
	floats.CumSum(pCum, depthsMm)

	peCum := make([]float64, len(pCum))
	for i, p := range pCum {
		if p <= ia {
			continue
		}
		if s > 0 {
			peCum[i] = (p - ia) * (p - ia) / (p - ia + s)
		} else {
			// CN=100: everything beyond the initial abstraction runs off.
			peCum[i] = p - ia
		}
	}

	effective := make([]float64, len(peCum))
	prev := 0.0
	for i, pe := range peCum {
		d := pe - prev
		if d < 0 {
			d = 0
		}
		effective[i] = d
		prev = pe
	}

	return &Result{
		EffectiveMm:          effective,
		TotalEffectiveMm:     peCum[len(peCum)-1],
		RetentionMm:          s,
		InitialAbstractionMm: ia,
		CNUsed:               cnUsed,
	}, nil
}

// EffectiveDepth is the scalar convenience form of EffectivePrecipitation
// for a single total storm depth.
func (m *Model) EffectiveDepth(totalMm float64, amc AMC) (*Result, error) {
	return m.EffectivePrecipitation([]float64{totalMm}, amc)
}

// RunoffCoefficient returns C = Pe/P for a total storm depth, or 0 when the
// depth is non-positive.
func (m *Model) RunoffCoefficient(totalMm float64, amc AMC) (float64, error) {
	if totalMm <= 0 {
		return 0, nil
	}
	res, err := m.EffectiveDepth(totalMm, amc)
	if err != nil {
		return 0, err
	}
	return res.TotalEffectiveMm / totalMm, nil
}
