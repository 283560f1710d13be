// Package cncatalog holds the TR-55 curve number tables: CN by hydrologic
// soil group, land cover, and hydrologic condition, plus area-weighted
// composites for mixed watersheds.
package cncatalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEntry is wrapped by all lookup and weighting failures.
var ErrUnknownEntry = errors.New("curve number catalog")

// SoilGroup is the NRCS hydrologic soil group.
type SoilGroup string

const (
	SoilA SoilGroup = "A"
	SoilB SoilGroup = "B"
	SoilC SoilGroup = "C"
	SoilD SoilGroup = "D"
)

// ParseSoilGroup accepts the four group letters in either case.
func ParseSoilGroup(s string) (SoilGroup, error) {
	switch g := SoilGroup(strings.ToUpper(strings.TrimSpace(s))); g {
	case SoilA, SoilB, SoilC, SoilD:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown soil group %q, want A, B, C, or D", ErrUnknownEntry, s)
	}
}

// Condition is the hydrologic condition of a vegetated cover.
type Condition string

const (
	ConditionPoor Condition = "poor"
	ConditionFair Condition = "fair"
	ConditionGood Condition = "good"
)

// Cover is a TR-55 land cover class.
type Cover string

const (
	Fallow            Cover = "fallow"
	RowCrops          Cover = "row_crops"
	SmallGrain        Cover = "small_grain"
	Pasture           Cover = "pasture"
	Meadow            Cover = "meadow"
	Brush             Cover = "brush"
	Forest            Cover = "forest"
	Herbaceous        Cover = "herbaceous"
	Farmstead         Cover = "farmstead"
	ResidentialLow    Cover = "residential_low"
	ResidentialMedium Cover = "residential_medium"
	ResidentialHigh   Cover = "residential_high"
	Commercial        Cover = "commercial"
	Industrial        Cover = "industrial"
	OpenSpace         Cover = "open_space"
	Paved             Cover = "paved"
	Gravel            Cover = "gravel"
	Dirt              Cover = "dirt"
	Water             Cover = "water"
)

type row struct{ a, b, c, d int }

func (r row) value(g SoilGroup) int {
	switch g {
	case SoilA:
		return r.a
	case SoilB:
		return r.b
	case SoilC:
		return r.c
	default:
		return r.d
	}
}

type key struct {
	cover Cover
	cond  Condition
}

// TR-55 table 2-2 values. Covers with no condition entry use the empty
// condition key.
var table = map[key]row{
	{Fallow, ""}: {77, 86, 91, 94},

	{RowCrops, ConditionPoor}: {72, 81, 88, 91},
	{RowCrops, ConditionFair}: {69, 79, 86, 90},
	{RowCrops, ConditionGood}: {67, 78, 85, 89},

	{SmallGrain, ConditionPoor}: {65, 76, 84, 88},
	{SmallGrain, ConditionFair}: {64, 75, 83, 87},
	{SmallGrain, ConditionGood}: {63, 75, 83, 87},

	{Pasture, ConditionPoor}: {68, 79, 86, 89},
	{Pasture, ConditionFair}: {49, 69, 79, 84},
	{Pasture, ConditionGood}: {39, 61, 74, 80},

	{Meadow, ""}: {30, 58, 71, 78},

	{Brush, ConditionPoor}: {48, 67, 77, 83},
	{Brush, ConditionFair}: {35, 56, 70, 77},
	{Brush, ConditionGood}: {30, 48, 65, 73},

	{Forest, ConditionPoor}: {45, 66, 77, 83},
	{Forest, ConditionFair}: {36, 60, 73, 79},
	{Forest, ConditionGood}: {30, 55, 70, 77},

	{Herbaceous, ConditionPoor}: {68, 79, 86, 89},
	{Herbaceous, ConditionFair}: {49, 69, 79, 84},
	{Herbaceous, ConditionGood}: {39, 61, 74, 80},

	{Farmstead, ""}:         {59, 74, 82, 86},
	{ResidentialLow, ""}:    {46, 65, 77, 82},
	{ResidentialMedium, ""}: {57, 72, 81, 86},
	{ResidentialHigh, ""}:   {77, 85, 90, 92},
	{Commercial, ""}:        {89, 92, 94, 95},
	{Industrial, ""}:        {81, 88, 91, 93},

	{OpenSpace, ConditionPoor}: {68, 79, 86, 89},
	{OpenSpace, ConditionFair}: {49, 69, 79, 84},
	{OpenSpace, ConditionGood}: {39, 61, 74, 80},

	{Paved, ""}:  {98, 98, 98, 98},
	{Gravel, ""}: {76, 85, 89, 91},
	{Dirt, ""}:   {72, 82, 87, 89},
	{Water, ""}:  {100, 100, 100, 100},
}

// Lookup returns the tabulated CN for a soil group, cover, and condition.
// Covers that do not vary with condition ignore it; covers that do default
// to fair when the condition is empty.
func Lookup(group SoilGroup, cover Cover, cond Condition) (int, error) {
	group, err := ParseSoilGroup(string(group))
	if err != nil {
		return 0, err
	}
	cover = Cover(strings.ToLower(strings.TrimSpace(string(cover))))
	cond = Condition(strings.ToLower(strings.TrimSpace(string(cond))))

	if r, ok := table[key{cover, cond}]; ok {
		return r.value(group), nil
	}
	if r, ok := table[key{cover, ""}]; ok {
		return r.value(group), nil
	}
	if cond == "" {
		if r, ok := table[key{cover, ConditionFair}]; ok {
			return r.value(group), nil
		}
	}
	return 0, fmt.Errorf("%w: no entry for cover %q with condition %q", ErrUnknownEntry, cover, cond)
}

// Covers lists the catalogued land cover classes.
func Covers() []Cover {
	seen := make(map[Cover]bool)
	var out []Cover
	for k := range table {
		if !seen[k.cover] {
			seen[k.cover] = true
			out = append(out, k.cover)
		}
	}
	return out
}

// Patch is one land-cover fraction of a mixed watershed.
type Patch struct {
	CN      float64
	AreaPct float64
}

// Composite computes the area-weighted curve number of a watershed made of
// multiple cover patches. Areas can be in any consistent unit.
func Composite(patches []Patch) (float64, error) {
	if len(patches) == 0 {
		return 0, fmt.Errorf("%w: no patches to weight", ErrUnknownEntry)
	}
	var totalArea, weighted float64
	for i, p := range patches {
		if p.CN < 1 || p.CN > 100 {
			return 0, fmt.Errorf("%w: patch %d curve number %g outside [1, 100]", ErrUnknownEntry, i, p.CN)
		}
		if p.AreaPct < 0 {
			return 0, fmt.Errorf("%w: patch %d area %g is negative", ErrUnknownEntry, i, p.AreaPct)
		}
		totalArea += p.AreaPct
		weighted += p.CN * p.AreaPct
	}
	if totalArea <= 0 {
		return 0, fmt.Errorf("%w: total patch area must be positive", ErrUnknownEntry)
	}
	return weighted / totalArea, nil
}
