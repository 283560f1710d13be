package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hydrolab/hydrograph/internal/log"
	"github.com/hydrolab/hydrograph/pkg/config"
	"github.com/hydrolab/hydrograph/pkg/hydrograph"
	"github.com/hydrolab/hydrograph/pkg/scscn"
)

func main() {
	var (
		cfgFile = flag.String("config", "", "YAML scenario file (overrides the individual flags)")
		area    = flag.Float64("area", 0, "Watershed area in km²")
		cn      = flag.Int("cn", 0, "SCS Curve Number for AMC-II conditions (1-100)")
		tc      = flag.Float64("tc", 0, "Time of concentration in minutes (scs and clark models)")
		ia      = flag.Float64("ia", 0.2, "Initial abstraction coefficient")
		precip  = flag.String("precipitation", "", "Comma-separated precipitation depths in mm per interval")
		dt      = flag.Float64("timestep", 5.0, "Precipitation interval in minutes")
		amcFlag = flag.String("amc", "normal", "Antecedent moisture condition: dry, normal, or wet")
		model   = flag.String("model", "scs", "Unit hydrograph model: scs, nash, clark, or snyder")
		nashN   = flag.Float64("nash-n", 0, "Nash shape parameter (number of reservoirs)")
		nashK   = flag.Float64("nash-k", 0, "Nash storage constant in minutes")
		clarkR  = flag.Float64("clark-r", 0, "Clark storage coefficient in minutes")
		lKm     = flag.Float64("snyder-l", 0, "Snyder main stream length in km")
		lcKm    = flag.Float64("snyder-lc", 0, "Snyder length to centroid in km")
		ct      = flag.Float64("snyder-ct", 0, "Snyder timing coefficient (default 1.5)")
		cp      = flag.Float64("snyder-cp", 0, "Snyder peaking coefficient (default 0.6)")
		format  = flag.String("format", "text", "Output format: text, csv, or json")
		debug   = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var (
		cfg    hydrograph.Config
		depths []float64
		step   float64
		amc    scscn.AMC
		err    error
	)

	if *cfgFile != "" {
		cfg, depths, step, amc, err = fromScenario(*cfgFile)
	} else {
		cfg = hydrograph.Config{
			AreaKm2:       *area,
			CN:            *cn,
			TcMin:         *tc,
			IaCoefficient: *ia,
		}
		cfg.Model, err = hydrograph.ParseModelKind(*model)
		if err == nil {
			switch cfg.Model {
			case hydrograph.ModelNash:
				cfg.Nash = &hydrograph.NashConfig{N: *nashN, KMin: *nashK}
			case hydrograph.ModelClark:
				cfg.Clark = &hydrograph.ClarkConfig{RMin: *clarkR}
			case hydrograph.ModelSnyder:
				cfg.Snyder = &hydrograph.SnyderConfig{LKm: *lKm, LcKm: *lcKm, Ct: *ct, Cp: *cp}
			}
			step = *dt
			depths, err = parseDepths(*precip)
		}
		if err == nil {
			amc, err = scscn.ParseAMC(*amcFlag)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	gen, err := hydrograph.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Debugw("running scenario",
		"area_km2", cfg.AreaKm2, "cn", cfg.CN, "model", cfg.Model,
		"intervals", len(depths), "timestep_min", step, "amc", amc.String())

	res, err := gen.Generate(depths, step, amc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "text":
		printText(cfg, res, amc)
	case "csv":
		err = printCSV(res)
	case "json":
		err = printJSON(res)
	default:
		err = fmt.Errorf("unknown output format %q", *format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func fromScenario(path string) (hydrograph.Config, []float64, float64, scscn.AMC, error) {
	scenario, err := config.NewProvider(path).Load()
	if err != nil {
		return hydrograph.Config{}, nil, 0, 0, err
	}
	cfg, err := scenario.GeneratorConfig()
	if err != nil {
		return hydrograph.Config{}, nil, 0, 0, err
	}
	series, err := scenario.Series()
	if err != nil {
		return hydrograph.Config{}, nil, 0, 0, err
	}
	amc, err := scenario.AMC()
	if err != nil {
		return hydrograph.Config{}, nil, 0, 0, err
	}
	return cfg, series.DepthsMm, series.TimestepMin, amc, nil
}

func parseDepths(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no precipitation given: use -precipitation or -config")
	}
	parts := strings.Split(s, ",")
	depths := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad precipitation value %q: %v", p, err)
		}
		depths[i] = v
	}
	return depths, nil
}

func printText(cfg hydrograph.Config, res *hydrograph.Result, amc scscn.AMC) {
	fmt.Printf("Direct Runoff Hydrograph\n")
	fmt.Printf("========================\n\n")
	fmt.Printf("Watershed:\n")
	fmt.Printf("  Area:               %.2f km²\n", cfg.AreaKm2)
	fmt.Printf("  Curve Number:       %d (AMC %s: %d)\n", cfg.CN, amc, res.CNUsed)
	fmt.Printf("  UH Model:           %s\n\n", cfg.Model)
	fmt.Printf("Water Balance:\n")
	fmt.Printf("  Total Precip:       %.2f mm\n", res.TotalPrecipMm)
	fmt.Printf("  Effective Precip:   %.2f mm\n", res.TotalEffectiveMm)
	fmt.Printf("  Runoff Coefficient: %.3f\n", res.RunoffCoefficient)
	fmt.Printf("  Retention S:        %.2f mm\n", res.RetentionMm)
	fmt.Printf("  Initial Abstr. Ia:  %.2f mm\n\n", res.InitialAbstractionMm)
	fmt.Printf("Hydrograph:\n")
	fmt.Printf("  Peak Discharge:     %.3f m³/s\n", res.Hydrograph.PeakM3s)
	fmt.Printf("  Time to Peak:       %.1f min\n", res.Hydrograph.TimeToPeakMin)
	fmt.Printf("  Runoff Volume:      %.0f m³\n", res.Hydrograph.TotalVolumeM3)
	fmt.Printf("  Ordinates:          %d at %.1f min\n", res.Hydrograph.Steps(), res.Hydrograph.TimestepMin)
}

func printCSV(res *hydrograph.Result) error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"time_min", "discharge_m3s"}); err != nil {
		return err
	}
	for i, t := range res.Hydrograph.TimesMin {
		rec := []string{
			strconv.FormatFloat(t, 'f', 1, 64),
			strconv.FormatFloat(res.Hydrograph.DischargeM3s[i], 'f', 6, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func printJSON(res *hydrograph.Result) error {
	out := struct {
		TimesMin             []float64 `json:"times_min"`
		DischargeM3s         []float64 `json:"discharge_m3s"`
		PeakM3s              float64   `json:"peak_m3s"`
		TimeToPeakMin        float64   `json:"time_to_peak_min"`
		TotalVolumeM3        float64   `json:"total_volume_m3"`
		TotalPrecipMm        float64   `json:"total_precip_mm"`
		TotalEffectiveMm     float64   `json:"total_effective_mm"`
		RunoffCoefficient    float64   `json:"runoff_coefficient"`
		CNUsed               int       `json:"cn_used"`
		RetentionMm          float64   `json:"retention_mm"`
		InitialAbstractionMm float64   `json:"initial_abstraction_mm"`
	}{
		TimesMin:             res.Hydrograph.TimesMin,
		DischargeM3s:         res.Hydrograph.DischargeM3s,
		PeakM3s:              res.Hydrograph.PeakM3s,
		TimeToPeakMin:        res.Hydrograph.TimeToPeakMin,
		TotalVolumeM3:        res.Hydrograph.TotalVolumeM3,
		TotalPrecipMm:        res.TotalPrecipMm,
		TotalEffectiveMm:     res.TotalEffectiveMm,
		RunoffCoefficient:    res.RunoffCoefficient,
		CNUsed:               res.CNUsed,
		RetentionMm:          res.RetentionMm,
		InitialAbstractionMm: res.InitialAbstractionMm,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
