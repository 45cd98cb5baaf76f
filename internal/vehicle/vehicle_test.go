package vehicle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"checkflow/internal/capacity"
	"checkflow/internal/congruence"
)

func s1Record() capacity.Record {
	return capacity.Record{
		Cap:   [6]float64{100, 50, 30, 20, 10, 5},
		FA:    1.1,
		Focup: [6]float64{1.2, 1.4, 1.3, 1.0, 1.0, 1.0},
	}
}

func TestDisaggregate_S1DirectionalFullMatch(t *testing.T) {
	counts := Disaggregate(250, false, congruence.ClassPossible, s1Record())

	assert.InDelta(t, 106.589147, counts.M(), 1e-5)
	assert.InDelta(t, 45.681062, counts.A(), 1e-5)
	assert.InDelta(t, 29.517764, counts.B(), 1e-5)
	assert.InDelta(t, 25.581395, counts.CU(), 1e-5)
	assert.InDelta(t, 12.790698, counts.CAI(), 1e-5)
	assert.InDelta(t, 6.395349, counts.CAII(), 1e-5)
	assert.InDelta(t, 226.555415, counts.Total, 1e-5)
}

func TestDisaggregate_S4Intrazonal(t *testing.T) {
	counts := Disaggregate(250, true, congruence.ClassExtremelyPossible, s1Record())
	for _, v := range counts.Values {
		assert.Equal(t, 0.0, v)
	}
	assert.Equal(t, 0.0, counts.Total)
}

func TestDisaggregate_CongruenceImpossibleZeroesRegardlessOfCapacity(t *testing.T) {
	counts := Disaggregate(250, false, congruence.ClassImpossible, s1Record())
	for _, v := range counts.Values {
		assert.Equal(t, 0.0, v)
	}
	assert.Equal(t, 0.0, counts.Total)
}

func TestDisaggregate_IntrazonalTakesPrecedenceOverCongruence(t *testing.T) {
	// Even with a congruence class that would otherwise compute, intrazonal wins.
	counts := Disaggregate(250, true, congruence.ClassPossible, s1Record())
	assert.Equal(t, 0.0, counts.Total)
}

func TestDisaggregate_MissingCapTotalYieldsNaNThroughout(t *testing.T) {
	rec := s1Record()
	rec.Cap[2] = math.NaN() // category B missing -> Total() is NaN
	counts := Disaggregate(250, false, congruence.ClassPossible, rec)
	for _, v := range counts.Values {
		assert.True(t, math.IsNaN(v))
	}
	assert.True(t, math.IsNaN(counts.Total))
}

func TestDisaggregate_MissingSingleFocupPropagatesOnlyToItsCategory(t *testing.T) {
	rec := s1Record()
	rec.Focup[0] = math.NaN() // M's occupancy factor missing
	counts := Disaggregate(250, false, congruence.ClassPossible, rec)

	assert.True(t, math.IsNaN(counts.M()))
	assert.False(t, math.IsNaN(counts.A()))
	assert.True(t, math.IsNaN(counts.Total)) // any NaN category propagates to the total
}

func TestDisaggregate_MissingFAPropagatesToEveryCategory(t *testing.T) {
	rec := s1Record()
	rec.FA = math.NaN()
	counts := Disaggregate(250, false, congruence.ClassPossible, rec)
	for _, v := range counts.Values {
		assert.True(t, math.IsNaN(v))
	}
	assert.True(t, math.IsNaN(counts.Total))
}

func TestDisaggregate_S5CensoredCountScalesLinearly(t *testing.T) {
	full := Disaggregate(250, false, congruence.ClassPossible, s1Record())
	censored := Disaggregate(1, false, congruence.ClassPossible, s1Record())

	for k := range full.Values {
		assert.InDelta(t, full.Values[k]/250, censored.Values[k], 1e-9)
	}
}

func TestDisaggregate_SharesSumToOne(t *testing.T) {
	rec := s1Record()
	total := rec.Total()
	var sumShares float64
	for _, c := range rec.Cap {
		sumShares += c / total
	}
	assert.InDelta(t, 1.0, sumShares, 1e-9)
}
