package hydrograph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrolab/hydrograph/pkg/hyetograph"
	"github.com/hydrolab/hydrograph/pkg/scscn"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero area", Config{AreaKm2: 0, CN: 72, TcMin: 90}},
		{"bad cn", Config{AreaKm2: 45, CN: 0, TcMin: 90}},
		{"cn above 100", Config{AreaKm2: 45, CN: 150, TcMin: 90}},
		{"scs without tc", Config{AreaKm2: 45, CN: 72, Model: ModelSCS}},
		{"clark without tc", Config{AreaKm2: 45, CN: 72, Model: ModelClark, Clark: &ClarkConfig{RMin: 30}}},
		{"clark without r", Config{AreaKm2: 45, CN: 72, TcMin: 90, Model: ModelClark}},
		{"nash without params", Config{AreaKm2: 45, CN: 72, Model: ModelNash}},
		{"nash bad n", Config{AreaKm2: 45, CN: 72, Model: ModelNash, Nash: &NashConfig{N: 0, KMin: 30}}},
		{"snyder without params", Config{AreaKm2: 45, CN: 72, Model: ModelSnyder}},
		{"snyder lc beyond l", Config{AreaKm2: 45, CN: 72, Model: ModelSnyder, Snyder: &SnyderConfig{LKm: 8, LcKm: 15}}},
		{"unknown model", Config{AreaKm2: 45, CN: 72, TcMin: 90, Model: ModelKind("muskingum")}},
		{"negative ia coefficient", Config{AreaKm2: 45, CN: 72, TcMin: 90, IaCoefficient: -0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	g, err := New(Config{AreaKm2: 45, CN: 72, TcMin: 90})
	require.NoError(t, err)

	cfg := g.Config()
	assert.Equal(t, ModelSCS, cfg.Model)
	assert.Equal(t, 0.2, cfg.IaCoefficient)
}

func TestNewSnyderDefaults(t *testing.T) {
	g, err := New(Config{
		AreaKm2: 45, CN: 72,
		Model:  ModelSnyder,
		Snyder: &SnyderConfig{LKm: 15, LcKm: 8},
	})
	require.NoError(t, err)

	cfg := g.Config()
	assert.Equal(t, 1.5, cfg.Snyder.Ct)
	assert.Equal(t, 0.6, cfg.Snyder.Cp)
}

func TestGeneratePipeline(t *testing.T) {
	g, err := New(Config{AreaKm2: 45, CN: 72, TcMin: 90})
	require.NoError(t, err)

	precip := []float64{5, 10, 15, 10, 5, 3}
	res, err := g.Generate(precip, 10.0, scscn.AMCNormal)
	require.NoError(t, err)

	assert.InDelta(t, 48.0, res.TotalPrecipMm, 1e-9)
	assert.Equal(t, 72, res.CNUsed)
	assert.InDelta(t, 98.777, res.RetentionMm, 0.01)
	assert.InDelta(t, 19.755, res.InitialAbstractionMm, 0.01)

	// Effective precipitation is aligned with the input and sums to the
	// reported total.
	require.Len(t, res.EffectiveMm, len(precip))
	sum := 0.0
	for _, pe := range res.EffectiveMm {
		assert.GreaterOrEqual(t, pe, 0.0)
		sum += pe
	}
	assert.InDelta(t, res.TotalEffectiveMm, sum, 1e-9)
	assert.Greater(t, res.TotalEffectiveMm, 0.0)
	assert.Less(t, res.TotalEffectiveMm, res.TotalPrecipMm)
	assert.InDelta(t, res.TotalEffectiveMm/res.TotalPrecipMm, res.RunoffCoefficient, 1e-12)

	// Convolution length law carries through the pipeline.
	assert.Equal(t, len(precip)+res.UnitHydrograph.Steps()-1, res.Hydrograph.Steps())
	assert.Greater(t, res.Hydrograph.PeakM3s, 0.0)

	// Mass balance: runoff volume matches effective depth over the area
	// within the unit hydrograph discretization tolerance.
	wantVol := res.TotalEffectiveMm * 45.0 * 1000.0
	assert.InEpsilon(t, wantVol, res.Hydrograph.TotalVolumeM3, 0.10)
}

func TestGenerateAMCOrdering(t *testing.T) {
	g, err := New(Config{AreaKm2: 45, CN: 72, TcMin: 90})
	require.NoError(t, err)

	precip := []float64{5, 10, 15, 10, 5, 3}
	peakFor := func(amc scscn.AMC) float64 {
		res, err := g.Generate(precip, 10.0, amc)
		require.NoError(t, err)
		return res.Hydrograph.PeakM3s
	}

	dry, normal, wet := peakFor(scscn.AMCDry), peakFor(scscn.AMCNormal), peakFor(scscn.AMCWet)
	assert.Less(t, dry, normal)
	assert.Less(t, normal, wet)
}

func TestGenerateAcrossModels(t *testing.T) {
	precip := []float64{5, 10, 15, 10, 5, 3}

	configs := map[string]Config{
		"scs":    {AreaKm2: 45, CN: 72, TcMin: 90},
		"nash":   {AreaKm2: 45, CN: 72, Model: ModelNash, Nash: &NashConfig{N: 3, KMin: 30}},
		"clark":  {AreaKm2: 45, CN: 72, TcMin: 90, Model: ModelClark, Clark: &ClarkConfig{RMin: 30}},
		"snyder": {AreaKm2: 45, CN: 72, Model: ModelSnyder, Snyder: &SnyderConfig{LKm: 15, LcKm: 8}},
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			g, err := New(cfg)
			require.NoError(t, err)

			res, err := g.Generate(precip, 10.0, scscn.AMCNormal)
			require.NoError(t, err)

			assert.Greater(t, res.Hydrograph.PeakM3s, 0.0)
			assert.Greater(t, res.Hydrograph.TimeToPeakMin, 0.0)

			wantVol := res.TotalEffectiveMm * 45.0 * 1000.0
			assert.InEpsilon(t, wantVol, res.Hydrograph.TotalVolumeM3, 0.12)
		})
	}
}

func TestGenerateBelowAbstraction(t *testing.T) {
	// A storm smaller than Ia produces a flat zero hydrograph.
	g, err := New(Config{AreaKm2: 45, CN: 72, TcMin: 90})
	require.NoError(t, err)

	res, err := g.Generate([]float64{2, 3, 2}, 10.0, scscn.AMCNormal)
	require.NoError(t, err)

	assert.Zero(t, res.TotalEffectiveMm)
	assert.Zero(t, res.Hydrograph.PeakM3s)
	assert.Zero(t, res.RunoffCoefficient)
}

func TestGenerateValidation(t *testing.T) {
	g, err := New(Config{AreaKm2: 45, CN: 72, TcMin: 90})
	require.NoError(t, err)

	_, err = g.Generate(nil, 10.0, scscn.AMCNormal)
	assert.ErrorIs(t, err, scscn.ErrInvalidParameter)

	_, err = g.Generate([]float64{5, 10}, 0, scscn.AMCNormal)
	assert.ErrorIs(t, err, scscn.ErrInvalidParameter)

	_, err = g.Generate([]float64{5, -1}, 10.0, scscn.AMCNormal)
	assert.ErrorIs(t, err, scscn.ErrInvalidParameter)
}

func TestGenerateFromSeries(t *testing.T) {
	g, err := New(Config{AreaKm2: 45, CN: 72, TcMin: 90})
	require.NoError(t, err)

	storm, err := hyetograph.Beta(50.0, 60.0, 5.0, 2.0, 5.0)
	require.NoError(t, err)

	res, err := g.GenerateFromSeries(storm, scscn.AMCNormal)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, res.TotalPrecipMm, 1e-9)
	assert.Equal(t, 5.0, res.Hydrograph.TimestepMin)

	_, err = g.GenerateFromSeries(nil, scscn.AMCNormal)
	assert.ErrorIs(t, err, scscn.ErrInvalidParameter)
}

func TestParseModelKind(t *testing.T) {
	for s, want := range map[string]ModelKind{
		"":        ModelSCS,
		"scs":     ModelSCS,
		"Nash":    ModelNash,
		" clark ": ModelClark,
		"SNYDER":  ModelSnyder,
	} {
		got, err := ParseModelKind(s)
		require.NoErrorf(t, err, "ParseModelKind(%q)", s)
		assert.Equal(t, want, got)
	}

	_, err := ParseModelKind("muskingum")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
