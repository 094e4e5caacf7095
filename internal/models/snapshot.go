// ABOUTME: Snapshot value type for amount-scaled nutrition values.
// ABOUTME: Frozen at log time; never recomputed from the source record.
package models

// Snapshot is a materialized set of nutrition values for a concrete
// consumed amount. Entries capture one at creation or amount-change
// time and keep it even if the source product is edited or deleted.
//
// Calories, protein, carbs, and fat are always present. The extended
// fields are optional (nil = unknown, which is distinct from a present
// zero), mirroring the per-100g product fields they are scaled from.
type Snapshot struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64

	Sugar        *float64
	NaturalSugar *float64
	AddedSugar   *float64
	Fibre        *float64
	Sodium       *float64
	Cholesterol  *float64
	SaturatedFat *float64
	TransFat     *float64

	Nutrients NutrientMap
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Sugar = cloneOpt(s.Sugar)
	out.NaturalSugar = cloneOpt(s.NaturalSugar)
	out.AddedSugar = cloneOpt(s.AddedSugar)
	out.Fibre = cloneOpt(s.Fibre)
	out.Sodium = cloneOpt(s.Sodium)
	out.Cholesterol = cloneOpt(s.Cholesterol)
	out.SaturatedFat = cloneOpt(s.SaturatedFat)
	out.TransFat = cloneOpt(s.TransFat)
	out.Nutrients = s.Nutrients.Clone()
	return out
}

func cloneOpt(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float64Ptr returns a pointer to v. Convenience for optional fields.
func Float64Ptr(v float64) *float64 { return &v }
