// Package vehicle implements the vehicle disaggregator (spec component C6):
// a pure function from a row's person-trip count, capacity record, and
// congruence class to six per-category vehicle counts plus their total.
//
// Grounded on services/report-svc/internal/generator/csv.go's per-row,
// side-effect-free computation style; the formula itself has no teacher
// analogue and is written fresh against §4.6.
package vehicle

import (
	"math"

	"checkflow/internal/capacity"
	"checkflow/internal/congruence"
)

// Counts holds the six per-category vehicle counts and their total. A NaN
// entry means the category's inputs were insufficient to compute it (spec
// §4.6 gate 3); it is never silently coerced to zero.
type Counts struct {
	Values [6]float64 // indexed by capacity.Category
	Total  float64
}

// M, A, B, CU, CAI, CAII read the corresponding category out of Values,
// matching the output schema's column order (spec §6).
func (c Counts) M() float64    { return c.Values[capacity.CategoryM] }
func (c Counts) A() float64    { return c.Values[capacity.CategoryA] }
func (c Counts) B() float64    { return c.Values[capacity.CategoryB] }
func (c Counts) CU() float64   { return c.Values[capacity.CategoryCU] }
func (c Counts) CAI() float64  { return c.Values[capacity.CategoryCAI] }
func (c Counts) CAII() float64 { return c.Values[capacity.CategoryCAII] }

func zeroCounts() Counts {
	return Counts{} // all zero values, Total 0
}

// Disaggregate applies the §4.6 formula and gates. tripsPerson and
// intrazonal come from the OD row; class and rec come from C5 and C4.
// rec is ignored once the class-4 or intrazonal gate fires.
func Disaggregate(tripsPerson int, intrazonal bool, class congruence.Class, rec capacity.Record) Counts {
	if class == congruence.ClassImpossible {
		return zeroCounts()
	}
	if intrazonal {
		return zeroCounts()
	}

	capTotal := rec.Total()
	if math.IsNaN(capTotal) {
		return nanCounts()
	}

	var out Counts
	anyNaN := false
	for _, k := range capacity.Categories {
		v := vehicleForCategory(tripsPerson, rec.FA, rec.Cap[k], capTotal, rec.Focup[k])
		out.Values[k] = v
		if math.IsNaN(v) {
			anyNaN = true
		}
	}

	if anyNaN {
		out.Total = math.NaN()
		return out
	}

	var sum float64
	for _, v := range out.Values {
		sum += v
	}
	out.Total = sum
	return out
}

// vehicleForCategory computes veh_k = (trips_person · fa · (cap_k /
// cap_total)) / focup_k, or NaN if fa, cap_k, or focup_k is missing.
// intrazonal/congruence gating happens one level up, so this never sees
// (1 − intrazonal_factor) as anything but 1.
func vehicleForCategory(tripsPerson int, fa, capK, capTotal, focupK float64) float64 {
	if math.IsNaN(fa) || math.IsNaN(capK) || math.IsNaN(focupK) || focupK == 0 {
		return math.NaN()
	}
	share := capK / capTotal
	return (float64(tripsPerson) * fa * share) / focupK
}

func nanCounts() Counts {
	var c Counts
	for i := range c.Values {
		c.Values[i] = math.NaN()
	}
	c.Total = math.NaN()
	return c
}
