package unithydro

import "gonum.org/v1/gonum/interp"

// Standard NRCS dimensionless unit hydrograph: tabulated (t/tp, q/qp) pairs
// spanning t/tp from 0 to 5, where tp is the time to peak and qp the peak
// discharge. Read-only after package initialization.
var (
	scsTimeRatios = []float64{
		0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9,
		1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6, 1.7, 1.8, 1.9,
		2.0, 2.2, 2.4, 2.6, 2.8, 3.0, 3.2, 3.4, 3.6, 3.8,
		4.0, 4.5, 5.0,
	}
	scsFlowRatios = []float64{
		0.000, 0.030, 0.100, 0.190, 0.310, 0.470, 0.660, 0.820, 0.930, 0.990,
		1.000, 0.990, 0.930, 0.860, 0.780, 0.680, 0.560, 0.460, 0.390, 0.330,
		0.280, 0.207, 0.147, 0.107, 0.077, 0.055, 0.040, 0.029, 0.021, 0.015,
		0.011, 0.005, 0.000,
	}

	scsTable interp.PiecewiseLinear
)

func init() {
	if err := scsTable.Fit(scsTimeRatios, scsFlowRatios); err != nil {
		panic("unithydro: fitting NRCS dimensionless table: " + err.Error())
	}
}

// dimensionlessOrdinate interpolates q/qp for a t/tp ratio. The table is zero
// at both ends, so ratios outside [0,5] evaluate to zero.
func dimensionlessOrdinate(tRatio float64) float64 {
	if tRatio <= 0 || tRatio >= 5.0 {
		return 0
	}
	return scsTable.Predict(tRatio)
}
