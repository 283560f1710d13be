package unithydro

import "fmt"

// SCS generates the NRCS dimensionless unit hydrograph for a watershed
// described by its time of concentration.
//
// Key relationships (metric, TR-55):
//
//	tlag = 0.6 * Tc
//	tp   = D/2 + tlag          (D = rainfall duration)
//	qp   = 0.208 * A / tp[h]   (m³/s per mm over A km²)
//	tb   = 5 * tp              (extent of the dimensionless table)
//
// The 0.208 constant comes from the triangular approximation: the volume
// under the hydrograph must equal 1 mm over the watershed, A*1000 m³.
type SCS struct {
	TcMin float64
}

// NewSCS validates the time of concentration and returns the generator.
func NewSCS(tcMin float64) (*SCS, error) {
	if tcMin <= 0 {
		return nil, fmt.Errorf("%w: time of concentration must be positive, got %g min", ErrInvalidParameter, tcMin)
	}
	return &SCS{TcMin: tcMin}, nil
}

// LagTimeMin returns tlag = 0.6 * Tc.
func (s *SCS) LagTimeMin() float64 { return 0.6 * s.TcMin }

// TimeToPeakMin returns tp = D/2 + tlag for a rainfall duration D.
func (s *SCS) TimeToPeakMin(durationMin float64) float64 {
	return durationMin/2.0 + s.LagTimeMin()
}

// PeakDischargeM3s returns qp = 0.208 * A / tp[h] in m³/s per mm.
func (s *SCS) PeakDischargeM3s(areaKm2, durationMin float64) float64 {
	tpHours := s.TimeToPeakMin(durationMin) / 60.0
	return 0.208 * areaKm2 / tpHours
}

// UnitHydrograph generates the D-minute unit hydrograph by scaling the
// dimensionless table to the watershed's tp and qp.
func (s *SCS) UnitHydrograph(areaKm2, durationMin, timestepMin float64) (*UnitHydrograph, error) {
	if err := validateFiniteArgs(areaKm2, durationMin, timestepMin); err != nil {
		return nil, err
	}

	tp := s.TimeToPeakMin(durationMin)
	qp := s.PeakDischargeM3s(areaKm2, durationMin)
	tb := 5.0 * tp

	times := timeGrid(tb, timestepMin)
	ordinates := make([]float64, len(times))
	for i, t := range times {
		ordinates[i] = qp * dimensionlessOrdinate(t/tp)
	}

	return &UnitHydrograph{
		TimesMin:      times,
		OrdinatesM3s:  ordinates,
		PeakM3s:       qp,
		TimeToPeakMin: tp,
		TimeBaseMin:   tb,
		LagTimeMin:    s.LagTimeMin(),
		DurationMin:   durationMin,
		TimestepMin:   timestepMin,
	}, nil
}
