// Package congruence implements the congruence classifier (spec component
// C5): the discrete gate that decides whether a row's route, direction, and
// capacity data are consistent enough to disaggregate into vehicle counts.
//
// Grounded on services/validation-svc/internal/validators/business.go's
// top-down rule evaluation style (first matching rule wins, no further
// checks run once a verdict is reached).
package congruence

import (
	"math"

	"checkflow/internal/network"
	"checkflow/internal/routing"
)

// Class is the discrete congruence verdict.
type Class int

const (
	// ClassExtremelyPossible is congruence_id 1.
	ClassExtremelyPossible Class = 1
	// ClassPossible is congruence_id 2.
	ClassPossible Class = 2
	// ClassUnlikely is congruence_id 3.
	ClassUnlikely Class = 3
	// ClassImpossible is congruence_id 4: the row is zeroed out downstream.
	ClassImpossible Class = 4
)

// ulpSlack is the numeric tolerance applied to e1 boundary comparisons, to
// avoid boundary flapping from floating-point rounding in the two summed
// Dijkstra distances (spec §4.5: "Numeric slack of one ULP ... is
// acceptable and recommended").
const ulpSlack = 1e-9

// Inputs bundles everything the classifier needs for one row.
type Inputs struct {
	McLengthM       float64
	Mc2LengthM      float64
	CheckpointIsDir bool
	SenseCode       string
	CapacityPresent bool
	CapTotal        float64 // NaN if missing
	TripsPerson     int
}

// Classify applies the §4.5 rule table and returns the congruence class
// plus the two secondary scores that drove the verdict. Both scores are 0
// when one of the class-4 gates fires before they are evaluated; a class-4
// verdict from the rule table itself (e1 >= 2.0) returns the computed scores.
func Classify(in Inputs) (class Class, e1, e2 float64) {
	if in.McLengthM == network.NoPath {
		return ClassImpossible, 0, 0
	}
	if in.Mc2LengthM == network.NoPath {
		return ClassImpossible, 0, 0
	}
	if in.CheckpointIsDir && in.SenseCode == routing.SenseInvalid {
		return ClassImpossible, 0, 0
	}
	if !in.CapacityPresent {
		return ClassImpossible, 0, 0
	}
	if math.IsNaN(in.CapTotal) || in.CapTotal == 0 {
		return ClassImpossible, 0, 0
	}

	e1 = in.Mc2LengthM / in.McLengthM
	e2 = capacityScore(in.CapTotal, in.TripsPerson)

	switch {
	case ge(e1, 0.9, ulpSlack) && le(e1, 1.2, ulpSlack) && e2 >= 0.8:
		return ClassExtremelyPossible, e1, e2
	case ge(e1, 0.8, ulpSlack) && le(e1, 1.5, ulpSlack) && e2 >= 0.5:
		return ClassPossible, e1, e2
	case e1 < 2.0:
		return ClassUnlikely, e1, e2
	default:
		return ClassImpossible, e1, e2
	}
}

// capacityScore is e2: how plausible the surveyed person demand is given
// the checkpoint's total vehicle capacity, as a value in [0, 1].
//
// §9's open question leaves e2's exact formula unpinned; this
// implementation defines it as the ratio of capacity to demand, capped at
// 1: demand fully covered by capacity is maximally plausible (1.0), and
// plausibility falls off linearly as capacity undershoots the surveyed
// person count.
func capacityScore(capTotal float64, tripsPerson int) float64 {
	if tripsPerson <= 0 {
		return 1.0
	}
	score := capTotal / float64(tripsPerson)
	if score > 1.0 {
		return 1.0
	}
	if score < 0 {
		return 0
	}
	return score
}

func ge(a, bound, slack float64) bool { return a >= bound-slack }
func le(a, bound, slack float64) bool { return a <= bound+slack }
