// Package config loads rainfall-runoff scenario files: the watershed, the
// design storm, and the unit hydrograph model selection, in YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/hydrolab/hydrograph/pkg/hydrograph"
	"github.com/hydrolab/hydrograph/pkg/hyetograph"
	"github.com/hydrolab/hydrograph/pkg/scscn"
)

// ErrInvalidScenario is wrapped by all scenario loading and validation
// failures.
var ErrInvalidScenario = errors.New("invalid scenario")

// Watershed describes the catchment.
type Watershed struct {
	AreaKm2       float64 `yaml:"area_km2"`
	CN            int     `yaml:"cn"`
	TcMin         float64 `yaml:"tc_min,omitempty"`
	IaCoefficient float64 `yaml:"ia_coefficient,omitempty"`
}

// Storm describes the design storm. Either Depths is given directly, or a
// synthetic distribution is named and the series is generated from the
// total depth and duration.
type Storm struct {
	Depths       []float64 `yaml:"depths_mm,omitempty"`
	TotalMm      float64   `yaml:"total_mm,omitempty"`
	DurationMin  float64   `yaml:"duration_min,omitempty"`
	TimestepMin  float64   `yaml:"timestep_min"`
	Distribution string    `yaml:"distribution,omitempty"` // block, triangular, beta, euler2
	PeakPosition float64   `yaml:"peak_position,omitempty"`
	Alpha        float64   `yaml:"alpha,omitempty"`
	Beta         float64   `yaml:"beta,omitempty"`
	AMC          string    `yaml:"amc,omitempty"`
}

// Model selects the unit hydrograph generator and its parameters.
type Model struct {
	Kind   string  `yaml:"kind,omitempty"`
	NashN  float64 `yaml:"nash_n,omitempty"`
	NashK  float64 `yaml:"nash_k_min,omitempty"`
	ClarkR float64 `yaml:"clark_r_min,omitempty"`
	LKm    float64 `yaml:"snyder_l_km,omitempty"`
	LcKm   float64 `yaml:"snyder_lc_km,omitempty"`
	Ct     float64 `yaml:"snyder_ct,omitempty"`
	Cp     float64 `yaml:"snyder_cp,omitempty"`
}

// Scenario is one complete run description.
type Scenario struct {
	Watershed Watershed `yaml:"watershed"`
	Storm     Storm     `yaml:"storm"`
	Model     Model     `yaml:"model,omitempty"`
}

// Provider loads scenarios from a YAML file.
type Provider struct {
	filename string
}

// NewProvider creates a scenario provider for a YAML file.
func NewProvider(filename string) *Provider {
	return &Provider{filename: filename}
}

// Load reads and parses the scenario file.
func (p *Provider) Load() (*Scenario, error) {
	data, err := os.ReadFile(p.filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scenario from YAML bytes.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return &s, nil
}

// GeneratorConfig converts the scenario's watershed and model sections to
// the orchestrator configuration. Validation of values is left to the
// orchestrator constructor.
func (s *Scenario) GeneratorConfig() (hydrograph.Config, error) {
	kind, err := hydrograph.ParseModelKind(s.Model.Kind)
	if err != nil {
		return hydrograph.Config{}, err
	}

	cfg := hydrograph.Config{
		AreaKm2:       s.Watershed.AreaKm2,
		CN:            s.Watershed.CN,
		TcMin:         s.Watershed.TcMin,
		IaCoefficient: s.Watershed.IaCoefficient,
		Model:         kind,
	}
	switch kind {
	case hydrograph.ModelNash:
		cfg.Nash = &hydrograph.NashConfig{N: s.Model.NashN, KMin: s.Model.NashK}
	case hydrograph.ModelClark:
		cfg.Clark = &hydrograph.ClarkConfig{RMin: s.Model.ClarkR}
	case hydrograph.ModelSnyder:
		cfg.Snyder = &hydrograph.SnyderConfig{
			LKm:  s.Model.LKm,
			LcKm: s.Model.LcKm,
			Ct:   s.Model.Ct,
			Cp:   s.Model.Cp,
		}
	}
	return cfg, nil
}

// Series resolves the storm section to a precipitation series: explicit
// depths when given, a synthetic distribution otherwise.
func (s *Scenario) Series() (*hyetograph.Series, error) {
	st := s.Storm
	if len(st.Depths) > 0 {
		if st.TimestepMin <= 0 {
			return nil, fmt.Errorf("%w: storm timestep must be positive, got %g min", ErrInvalidScenario, st.TimestepMin)
		}
		total := 0.0
		for i, d := range st.Depths {
			if d < 0 {
				return nil, fmt.Errorf("%w: storm depth at interval %d is negative", ErrInvalidScenario, i)
			}
			total += d
		}
		return &hyetograph.Series{
			DepthsMm:    st.Depths,
			TimestepMin: st.TimestepMin,
			DurationMin: float64(len(st.Depths)) * st.TimestepMin,
			TotalMm:     total,
		}, nil
	}

	switch st.Distribution {
	case "", "block":
		return hyetograph.Block(st.TotalMm, st.DurationMin, st.TimestepMin)
	case "triangular":
		return hyetograph.Triangular(st.TotalMm, st.DurationMin, st.TimestepMin, st.PeakPosition)
	case "beta":
		return hyetograph.Beta(st.TotalMm, st.DurationMin, st.TimestepMin, st.Alpha, st.Beta)
	case "euler2":
		return hyetograph.EulerII(st.TotalMm, st.DurationMin, st.TimestepMin)
	default:
		return nil, fmt.Errorf("%w: unknown storm distribution %q", ErrInvalidScenario, st.Distribution)
	}
}

// AMC parses the storm's antecedent moisture condition, defaulting to
// normal when the field is empty.
func (s *Scenario) AMC() (scscn.AMC, error) {
	return scscn.ParseAMC(s.Storm.AMC)
}
