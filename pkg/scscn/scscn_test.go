package scscn

import (
	"errors"
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		cn      int
		iaCoeff float64
		wantErr bool
	}{
		{"typical", 72, 0.2, false},
		{"lower bound", 1, 0.2, false},
		{"upper bound", 100, 0.2, false},
		{"ia upper bound", 72, 1.0, false},
		{"cn zero", 0, 0.2, true},
		{"cn too high", 101, 0.2, true},
		{"cn negative", -5, 0.2, true},
		{"ia zero", 72, 0.0, true},
		{"ia negative", 72, -0.1, true},
		{"ia above one", 72, 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cn, tt.iaCoeff)
			if tt.wantErr && err == nil {
				t.Fatalf("New(%d, %g): expected error, got nil", tt.cn, tt.iaCoeff)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("New(%d, %g): unexpected error: %v", tt.cn, tt.iaCoeff, err)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error should wrap ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestRetention(t *testing.T) {
	tests := []struct {
		cn   int
		want float64
	}{
		{72, 98.78},  // 25400/72 - 254
		{50, 254.0},  // 25400/50 - 254
		{100, 0.0},   // fully impervious
		{1, 25146.0}, // 25400/1 - 254
	}

	for _, tt := range tests {
		got := Retention(tt.cn)
		if math.Abs(got-tt.want) > 0.1 {
			t.Errorf("Retention(%d) = %.2f, want %.2f", tt.cn, got, tt.want)
		}
	}
}

func TestConcreteScenario(t *testing.T) {
	// CN=72, P=50 mm, ia coefficient 0.2:
	// S = 98.78 mm, Ia = 19.76 mm, Pe = (50-19.76)^2/(50-19.76+98.78) = 7.09 mm
	m, err := New(72, 0.2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := m.EffectiveDepth(50.0, AMCNormal)
	if err != nil {
		t.Fatalf("EffectiveDepth: %v", err)
	}

	if math.Abs(res.RetentionMm-98.78) > 0.1 {
		t.Errorf("S = %.2f, want 98.78", res.RetentionMm)
	}
	if math.Abs(res.InitialAbstractionMm-19.76) > 0.1 {
		t.Errorf("Ia = %.2f, want 19.76", res.InitialAbstractionMm)
	}
	if res.TotalEffectiveMm < 7.0 || res.TotalEffectiveMm > 7.2 {
		t.Errorf("Pe = %.3f, want 7.08-7.09", res.TotalEffectiveMm)
	}
}

func TestBelowInitialAbstraction(t *testing.T) {
	m, _ := New(72, 0.2)

	// 10 mm is well below Ia of 19.76 mm; nothing should run off.
	res, err := m.EffectiveDepth(10.0, AMCNormal)
	if err != nil {
		t.Fatalf("EffectiveDepth: %v", err)
	}
	if res.TotalEffectiveMm != 0 {
		t.Errorf("Pe below Ia = %g, want 0", res.TotalEffectiveMm)
	}
}

func TestCN100Degeneracy(t *testing.T) {
	m, _ := New(100, 0.2)

	res, err := m.EffectiveDepth(50.0, AMCNormal)
	if err != nil {
		t.Fatalf("EffectiveDepth: %v", err)
	}
	if res.RetentionMm != 0 {
		t.Errorf("S = %g, want 0", res.RetentionMm)
	}
	if res.InitialAbstractionMm != 0 {
		t.Errorf("Ia = %g, want 0", res.InitialAbstractionMm)
	}
	if math.Abs(res.TotalEffectiveMm-50.0) > 0.01 {
		t.Errorf("Pe = %g, want 50 (Pe = P at CN=100)", res.TotalEffectiveMm)
	}

	// The per-interval series must also reproduce the input exactly.
	series := []float64{5.0, 10.0, 15.0, 10.0}
	seriesRes, err := m.EffectivePrecipitation(series, AMCNormal)
	if err != nil {
		t.Fatalf("EffectivePrecipitation: %v", err)
	}
	for i, pe := range seriesRes.EffectiveMm {
		if math.Abs(pe-series[i]) > 1e-9 {
			t.Errorf("interval %d: Pe = %g, want %g", i, pe, series[i])
		}
	}
}

func TestAMCAdjustment(t *testing.T) {
	m, _ := New(72, 0.2)

	dry, err := m.AdjustedCN(AMCDry)
	if err != nil {
		t.Fatalf("AdjustedCN(dry): %v", err)
	}
	normal, _ := m.AdjustedCN(AMCNormal)
	wet, _ := m.AdjustedCN(AMCWet)

	if normal != 72 {
		t.Errorf("normal CN = %d, want 72 (unchanged)", normal)
	}
	if dry >= 72 {
		t.Errorf("dry CN = %d, want < 72", dry)
	}
	if wet <= 72 {
		t.Errorf("wet CN = %d, want > 72", wet)
	}

	// CN=100 must stay clamped at 100 under the wet transform.
	impervious, _ := New(100, 0.2)
	wet100, _ := impervious.AdjustedCN(AMCWet)
	if wet100 != 100 {
		t.Errorf("wet CN for CN=100 = %d, want 100", wet100)
	}
}

func TestAMCOrdering(t *testing.T) {
	// For the same CN and P, Pe(dry) <= Pe(normal) <= Pe(wet).
	m, _ := New(72, 0.2)

	peDry, _ := m.EffectiveDepth(50.0, AMCDry)
	peNormal, _ := m.EffectiveDepth(50.0, AMCNormal)
	peWet, _ := m.EffectiveDepth(50.0, AMCWet)

	if peDry.TotalEffectiveMm > peNormal.TotalEffectiveMm {
		t.Errorf("Pe(dry)=%.3f > Pe(normal)=%.3f", peDry.TotalEffectiveMm, peNormal.TotalEffectiveMm)
	}
	if peNormal.TotalEffectiveMm > peWet.TotalEffectiveMm {
		t.Errorf("Pe(normal)=%.3f > Pe(wet)=%.3f", peNormal.TotalEffectiveMm, peWet.TotalEffectiveMm)
	}
}

func TestCumulativeMonotonicity(t *testing.T) {
	m, _ := New(80, 0.2)

	depths := []float64{2, 4, 8, 12, 10, 6, 3, 1}
	res, err := m.EffectivePrecipitation(depths, AMCNormal)
	if err != nil {
		t.Fatalf("EffectivePrecipitation: %v", err)
	}

	cum := 0.0
	for i, pe := range res.EffectiveMm {
		if pe < 0 {
			t.Errorf("interval %d: Pe = %g, must be >= 0", i, pe)
		}
		cum += pe
	}
	if cum > floatsSum(depths) {
		t.Errorf("sum(Pe)=%.3f exceeds sum(P)=%.3f", cum, floatsSum(depths))
	}
	if math.Abs(cum-res.TotalEffectiveMm) > 1e-9 {
		t.Errorf("sum of intervals %.6f disagrees with total %.6f", cum, res.TotalEffectiveMm)
	}
}

func TestEmptyAndNegativeInput(t *testing.T) {
	m, _ := New(72, 0.2)

	if _, err := m.EffectivePrecipitation(nil, AMCNormal); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("empty series: got %v, want ErrInvalidParameter", err)
	}
	if _, err := m.EffectivePrecipitation([]float64{5, -1, 3}, AMCNormal); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("negative depth: got %v, want ErrInvalidParameter", err)
	}
}

func TestRunoffCoefficient(t *testing.T) {
	m, _ := New(72, 0.2)

	c, err := m.RunoffCoefficient(50.0, AMCNormal)
	if err != nil {
		t.Fatalf("RunoffCoefficient: %v", err)
	}
	// Pe/P = 7.08/50 = 0.14
	if c < 0.13 || c > 0.15 {
		t.Errorf("C = %.3f, want about 0.14", c)
	}

	zero, _ := m.RunoffCoefficient(0, AMCNormal)
	if zero != 0 {
		t.Errorf("C for zero precipitation = %g, want 0", zero)
	}
}

func TestParseAMC(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want AMC
	}{
		{"dry", AMCDry}, {"I", AMCDry},
		{"normal", AMCNormal}, {"II", AMCNormal}, {"", AMCNormal},
		{"wet", AMCWet}, {"III", AMCWet},
	} {
		got, err := ParseAMC(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseAMC(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseAMC("soggy"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ParseAMC(soggy): got %v, want ErrInvalidParameter", err)
	}
}

func floatsSum(s []float64) float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}
