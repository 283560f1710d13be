package convolve

import (
	"errors"
	"math"
	"testing"

	"github.com/hydrolab/hydrograph/pkg/unithydro"
)

func triangleUH(timestepMin float64) *unithydro.UnitHydrograph {
	// Three-ordinate triangle: 0, 2, 0.5 m³/s per mm.
	return &unithydro.UnitHydrograph{
		TimesMin:      []float64{0, timestepMin, 2 * timestepMin},
		OrdinatesM3s:  []float64{0, 2.0, 0.5},
		PeakM3s:       2.0,
		TimeToPeakMin: timestepMin,
		TimestepMin:   timestepMin,
	}
}

func TestDiscreteKnownValues(t *testing.T) {
	// Pe = [1, 3] mm against [0, 2, 0.5]:
	// Q = [0, 2, 6.5, 1.5].
	h, err := Discrete([]float64{1.0, 3.0}, triangleUH(10.0), 10.0)
	if err != nil {
		t.Fatalf("Discrete: %v", err)
	}

	want := []float64{0, 2.0, 6.5, 1.5}
	if len(h.DischargeM3s) != len(want) {
		t.Fatalf("got %d ordinates, want %d", len(h.DischargeM3s), len(want))
	}
	for i, q := range want {
		if math.Abs(h.DischargeM3s[i]-q) > 1e-12 {
			t.Errorf("Q[%d] = %g, want %g", i, h.DischargeM3s[i], q)
		}
	}
	if h.PeakM3s != 6.5 {
		t.Errorf("peak = %g, want 6.5", h.PeakM3s)
	}
	if h.TimeToPeakMin != 20.0 {
		t.Errorf("tp = %g, want 20", h.TimeToPeakMin)
	}
	wantVol := (2.0 + 6.5 + 1.5) * 10.0 * 60.0
	if math.Abs(h.TotalVolumeM3-wantVol) > 1e-9 {
		t.Errorf("volume = %g, want %g", h.TotalVolumeM3, wantVol)
	}
}

func TestDiscreteLengthLaw(t *testing.T) {
	uh := triangleUH(5.0)
	for _, n := range []int{1, 4, 12} {
		pe := make([]float64, n)
		pe[0] = 1.0
		h, err := Discrete(pe, uh, 5.0)
		if err != nil {
			t.Fatalf("Discrete(n=%d): %v", n, err)
		}
		if got, want := h.Steps(), n+uh.Steps()-1; got != want {
			t.Errorf("n=%d: %d ordinates, want %d", n, got, want)
		}
	}
}

func TestDiscreteLinearity(t *testing.T) {
	// Doubling the rainfall doubles every ordinate.
	uh := triangleUH(5.0)
	pe := []float64{0.5, 2.0, 1.0}

	h1, err := Discrete(pe, uh, 5.0)
	if err != nil {
		t.Fatalf("Discrete: %v", err)
	}
	doubled := make([]float64, len(pe))
	for i, v := range pe {
		doubled[i] = 2 * v
	}
	h2, err := Discrete(doubled, uh, 5.0)
	if err != nil {
		t.Fatalf("Discrete: %v", err)
	}
	for i := range h1.DischargeM3s {
		if math.Abs(h2.DischargeM3s[i]-2*h1.DischargeM3s[i]) > 1e-12 {
			t.Fatalf("Q[%d]: %g is not double %g", i, h2.DischargeM3s[i], h1.DischargeM3s[i])
		}
	}
}

func TestDiscreteZeroRainfall(t *testing.T) {
	h, err := Discrete([]float64{0, 0, 0}, triangleUH(5.0), 5.0)
	if err != nil {
		t.Fatalf("Discrete: %v", err)
	}
	for i, q := range h.DischargeM3s {
		if q != 0 {
			t.Errorf("Q[%d] = %g, want 0", i, q)
		}
	}
	if h.TotalVolumeM3 != 0 {
		t.Errorf("volume = %g, want 0", h.TotalVolumeM3)
	}
}

func TestDiscreteValidation(t *testing.T) {
	uh := triangleUH(5.0)

	tests := []struct {
		name string
		pe   []float64
		uh   *unithydro.UnitHydrograph
		dt   float64
	}{
		{"empty series", nil, uh, 5.0},
		{"nil unit hydrograph", []float64{1}, nil, 5.0},
		{"empty unit hydrograph", []float64{1}, &unithydro.UnitHydrograph{TimestepMin: 5.0}, 5.0},
		{"zero timestep", []float64{1}, uh, 0},
		{"timestep mismatch", []float64{1}, uh, 10.0},
		{"negative rainfall", []float64{1, -0.5}, uh, 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Discrete(tt.pe, tt.uh, tt.dt); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}
