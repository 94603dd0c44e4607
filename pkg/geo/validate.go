package geo

import (
	"fmt"
	"math"
)

// WarningKind classifies a dataset finding.
type WarningKind int

const (
	WarnEmptyRing      WarningKind = iota // ring has no coordinates
	WarnDegenerateRing                    // fewer than three distinct coordinates
	WarnPolarLatitude                     // latitude beyond the projectable range
	WarnNoName                            // region metadata lacks a name
)

func (k WarningKind) String() string {
	switch k {
	case WarnEmptyRing:
		return "empty-ring"
	case WarnDegenerateRing:
		return "degenerate-ring"
	case WarnPolarLatitude:
		return "polar-latitude"
	case WarnNoName:
		return "no-name"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is an advisory finding about a dataset. None of them stop a map
// from being built; they explain why a region may be missing or unnamed.
type Warning struct {
	Kind    WarningKind
	Feature int // feature index
	Polygon int // polygon index within the feature, -1 if feature-level
	Ring    int // ring index within the polygon, -1 if polygon-level
	Message string
}

func (w Warning) String() string {
	if w.Polygon < 0 {
		return fmt.Sprintf("[%s] feature %d: %s", w.Kind, w.Feature, w.Message)
	}
	return fmt.Sprintf("[%s] feature %d polygon %d ring %d: %s",
		w.Kind, w.Feature, w.Polygon, w.Ring, w.Message)
}

// polarLimit is the latitude beyond which Mercator coordinates are clamped.
const polarLimit = 85.05112877980659

// Validate inspects a dataset and reports advisory warnings. It never
// mutates the dataset.
func Validate(ds *Dataset) []Warning {
	if ds == nil {
		return nil
	}
	var warnings []Warning
	for fi, f := range ds.Features {
		if f.Metadata.Name() == "" {
			warnings = append(warnings, Warning{
				Kind:    WarnNoName,
				Feature: fi,
				Polygon: -1,
				Ring:    -1,
				Message: "region has no name property",
			})
		}
		for pi, p := range f.Polygons {
			for ri, r := range p {
				warnings = append(warnings, validateRing(fi, pi, ri, r)...)
			}
		}
	}
	return warnings
}

func validateRing(fi, pi, ri int, r Ring) []Warning {
	var warnings []Warning
	if len(r) == 0 {
		return append(warnings, Warning{
			Kind: WarnEmptyRing, Feature: fi, Polygon: pi, Ring: ri,
			Message: "ring has no coordinates",
		})
	}
	if n := DistinctCount(r); n < 3 {
		warnings = append(warnings, Warning{
			Kind: WarnDegenerateRing, Feature: fi, Polygon: pi, Ring: ri,
			Message: fmt.Sprintf("ring has %d distinct coordinates, need at least 3", n),
		})
	}
	for _, c := range r {
		if math.Abs(c.Lat) > polarLimit {
			warnings = append(warnings, Warning{
				Kind: WarnPolarLatitude, Feature: fi, Polygon: pi, Ring: ri,
				Message: fmt.Sprintf("latitude %.4f will be clamped to ±%.4f", c.Lat, polarLimit),
			})
			break
		}
	}
	return warnings
}

// DistinctCount returns the number of coordinates in r after dropping
// consecutive duplicates and a closing coordinate equal to the first.
func DistinctCount(r Ring) int {
	if len(r) == 0 {
		return 0
	}
	n := 1
	for i := 1; i < len(r); i++ {
		if r[i] != r[i-1] {
			n++
		}
	}
	if n > 1 && r[len(r)-1] == r[0] {
		n--
	}
	return n
}
