// ABOUTME: NutrientMap value type shared by products, entries, and templates.
// ABOUTME: Sparse map keyed by NutrientID; absent means unknown, zero means measured zero.
package models

// NutrientMap holds micronutrient amounts keyed by NutrientID.
// The map is sparse: a missing key means the value is unknown, which is
// distinct from a present 0. Scaling operations preserve that
// distinction and never materialize absent keys.
//
// encoding/json marshals map keys in sorted order, which gives the
// backup format its deterministic key ordering for free.
type NutrientMap map[NutrientID]float64

// Scale returns a copy with every present value multiplied by factor.
// Present zeros stay present; absent keys stay absent.
func (nm NutrientMap) Scale(factor float64) NutrientMap {
	if nm == nil {
		return nil
	}
	out := make(NutrientMap, len(nm))
	for id, v := range nm {
		out[id] = v * factor
	}
	return out
}

// Clone returns a copy of the map, or nil for a nil map.
func (nm NutrientMap) Clone() NutrientMap {
	if nm == nil {
		return nil
	}
	out := make(NutrientMap, len(nm))
	for id, v := range nm {
		out[id] = v
	}
	return out
}

// Add accumulates other into nm in place, creating keys as needed.
// Used by daily total reductions.
func (nm NutrientMap) Add(other NutrientMap) {
	for id, v := range other {
		nm[id] += v
	}
}

// Get returns the value and whether it is present.
func (nm NutrientMap) Get(id NutrientID) (float64, bool) {
	v, ok := nm[id]
	return v, ok
}
