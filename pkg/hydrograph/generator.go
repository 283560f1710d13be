// Package hydrograph is the rainfall-runoff orchestrator. It chains the
// SCS-CN abstraction model, a unit hydrograph generator, and discrete
// convolution into a single pipeline that turns a precipitation series into
// a direct-runoff hydrograph with its water balance.
package hydrograph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hydrolab/hydrograph/pkg/convolve"
	"github.com/hydrolab/hydrograph/pkg/hyetograph"
	"github.com/hydrolab/hydrograph/pkg/scscn"
	"github.com/hydrolab/hydrograph/pkg/unithydro"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidConfig is wrapped by all generator construction failures.
var ErrInvalidConfig = errors.New("invalid generator config")

// ModelKind selects the unit hydrograph model.
type ModelKind string

const (
	ModelSCS    ModelKind = "scs"
	ModelNash   ModelKind = "nash"
	ModelClark  ModelKind = "clark"
	ModelSnyder ModelKind = "snyder"
)

// ParseModelKind maps configuration strings to a model kind. The empty
// string selects the SCS default.
func ParseModelKind(s string) (ModelKind, error) {
	switch k := ModelKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return ModelSCS, nil
	case ModelSCS, ModelNash, ModelClark, ModelSnyder:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown unit hydrograph model %q", ErrInvalidConfig, s)
	}
}

// NashConfig parameterizes the Nash cascade.
type NashConfig struct {
	N    float64
	KMin float64
}

// ClarkConfig parameterizes the Clark model; Tc comes from the watershed.
type ClarkConfig struct {
	RMin float64
}

// SnyderConfig parameterizes the Snyder model. Zero Ct and Cp take the
// conventional defaults 1.5 and 0.6.
type SnyderConfig struct {
	LKm  float64
	LcKm float64
	Ct   float64
	Cp   float64
}

// Config describes a watershed and the model used to transform its
// rainfall. Model-specific parameter blocks are required for the model they
// belong to and ignored otherwise.
type Config struct {
	AreaKm2       float64
	CN            int
	TcMin         float64 // required for scs and clark
	IaCoefficient float64 // zero takes the conventional 0.2
	Model         ModelKind
	Nash          *NashConfig
	Clark         *ClarkConfig
	Snyder        *SnyderConfig
}

// Generator is a fully validated rainfall-runoff pipeline for one
// watershed. Construct with New; the zero value is not usable.
type Generator struct {
	cfg   Config
	loss  *scscn.Model
	model unithydro.Generator
}

// New validates the configuration and builds the pipeline. Every
// model-parameter requirement is checked here so Generate cannot fail on
// configuration.
func New(cfg Config) (*Generator, error) {
	if cfg.AreaKm2 <= 0 {
		return nil, fmt.Errorf("%w: area must be positive, got %g km²", ErrInvalidConfig, cfg.AreaKm2)
	}

	ia := cfg.IaCoefficient
	if ia == 0 {
		ia = 0.2
	}
	loss, err := scscn.New(cfg.CN, ia)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.IaCoefficient = ia

	if cfg.Model == "" {
		cfg.Model = ModelSCS
	}

	var model unithydro.Generator
	switch cfg.Model {
	case ModelSCS:
		if cfg.TcMin <= 0 {
			return nil, fmt.Errorf("%w: scs model requires a positive time of concentration", ErrInvalidConfig)
		}
		model, err = unithydro.NewSCS(cfg.TcMin)
	case ModelNash:
		if cfg.Nash == nil {
			return nil, fmt.Errorf("%w: nash model requires n and k parameters", ErrInvalidConfig)
		}
		model, err = unithydro.NewNash(cfg.Nash.N, cfg.Nash.KMin)
	case ModelClark:
		if cfg.TcMin <= 0 {
			return nil, fmt.Errorf("%w: clark model requires a positive time of concentration", ErrInvalidConfig)
		}
		if cfg.Clark == nil {
			return nil, fmt.Errorf("%w: clark model requires a storage coefficient", ErrInvalidConfig)
		}
		model, err = unithydro.NewClark(cfg.TcMin, cfg.Clark.RMin)
	case ModelSnyder:
		if cfg.Snyder == nil {
			return nil, fmt.Errorf("%w: snyder model requires stream length parameters", ErrInvalidConfig)
		}
		s := *cfg.Snyder
		if s.Ct == 0 {
			s.Ct = 1.5
		}
		if s.Cp == 0 {
			s.Cp = 0.6
		}
		cfg.Snyder = &s
		model, err = unithydro.NewSnyder(s.LKm, s.LcKm, s.Ct, s.Cp)
	default:
		return nil, fmt.Errorf("%w: unknown unit hydrograph model %q", ErrInvalidConfig, cfg.Model)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &Generator{cfg: cfg, loss: loss, model: model}, nil
}

// Config returns the validated configuration, defaults applied.
func (g *Generator) Config() Config { return g.cfg }

// Result is the direct-runoff hydrograph plus the water balance of the
// event that produced it.
type Result struct {
	Hydrograph           *convolve.Hydrograph
	UnitHydrograph       *unithydro.UnitHydrograph
	EffectiveMm          []float64
	TotalPrecipMm        float64
	TotalEffectiveMm     float64
	RunoffCoefficient    float64
	CNUsed               int
	RetentionMm          float64
	InitialAbstractionMm float64
}

// Generate runs the pipeline on a raw depth series: abstraction, a unit
// hydrograph at the series timestep (duration D equals the timestep), and
// convolution.
func (g *Generator) Generate(depthsMm []float64, timestepMin float64, amc scscn.AMC) (*Result, error) {
	if len(depthsMm) == 0 {
		return nil, fmt.Errorf("%w: precipitation series cannot be empty", scscn.ErrInvalidParameter)
	}
	if timestepMin <= 0 {
		return nil, fmt.Errorf("%w: timestep must be positive, got %g min", scscn.ErrInvalidParameter, timestepMin)
	}

	loss, err := g.loss.EffectivePrecipitation(depthsMm, amc)
	if err != nil {
		return nil, err
	}

	uh, err := g.model.UnitHydrograph(g.cfg.AreaKm2, timestepMin, timestepMin)
	if err != nil {
		return nil, err
	}

	h, err := convolve.Discrete(loss.EffectiveMm, uh, timestepMin)
	if err != nil {
		return nil, err
	}

	totalPrecip := floats.Sum(depthsMm)
	runoffCoef := 0.0
	if totalPrecip > 0 {
		runoffCoef = loss.TotalEffectiveMm / totalPrecip
	}

	return &Result{
		Hydrograph:           h,
		UnitHydrograph:       uh,
		EffectiveMm:          loss.EffectiveMm,
		TotalPrecipMm:        totalPrecip,
		TotalEffectiveMm:     loss.TotalEffectiveMm,
		RunoffCoefficient:    runoffCoef,
		CNUsed:               loss.CNUsed,
		RetentionMm:          loss.RetentionMm,
		InitialAbstractionMm: loss.InitialAbstractionMm,
	}, nil
}

// GenerateFromSeries runs the pipeline on a design storm, taking the
// timestep from the series itself.
func (g *Generator) GenerateFromSeries(s *hyetograph.Series, amc scscn.AMC) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: storm series is nil", scscn.ErrInvalidParameter)
	}
	return g.Generate(s.DepthsMm, s.TimestepMin, amc)
}
