package capacity

import "math"

// RawRow is one row of the source capacity table, prior to aggregation.
// Missing numeric fields are represented as NaN.
type RawRow struct {
	CheckpointID string
	SenseCode    string
	Cap          [categoryCount]float64
	FA           float64
	Focup        [categoryCount]float64
}

// accumulator collects the raw rows that share a key before the aggregation
// rule (spec §4.4) is applied once, at Build time.
type accumulator struct {
	key Key

	capSum     [categoryCount]float64
	capPresent [categoryCount]bool

	faSum   float64
	faCount int

	focupWeightedSum [categoryCount]float64
	focupWeightSum   [categoryCount]float64
}

// Builder accumulates RawRows and produces the aggregated Index.
//
// The aggregation is grouped and folded incrementally (one pass over the
// raw rows) rather than buffered and grouped afterward, mirroring how
// pkg/database/postgres.go's scan loops fold query results into aggregates
// row by row.
type Builder struct {
	acc map[Key]*accumulator
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{acc: make(map[Key]*accumulator)}
}

// Add folds one raw row into its key's running aggregate.
func (b *Builder) Add(row RawRow) {
	key := Key{CheckpointID: row.CheckpointID, SenseCode: row.SenseCode}
	a, ok := b.acc[key]
	if !ok {
		a = &accumulator{key: key}
		b.acc[key] = a
	}

	for i := 0; i < categoryCount; i++ {
		cap := row.Cap[i]
		if !math.IsNaN(cap) {
			a.capSum[i] += cap
			a.capPresent[i] = true
		}
		focup := row.Focup[i]
		if !math.IsNaN(focup) && !math.IsNaN(cap) && cap != 0 {
			a.focupWeightedSum[i] += focup * cap
			a.focupWeightSum[i] += cap
		}
	}

	if !math.IsNaN(row.FA) {
		a.faSum += row.FA
		a.faCount++
	}
}

// Build folds all accumulated rows into their final Records and returns the
// Index. Build is idempotent over an already-aggregated input: re-adding the
// Index's own records and rebuilding yields the same Records (spec §8's
// aggregation-idempotence law), because a single raw row per key sums to
// itself, averages to itself, and weight-averages to itself.
func (b *Builder) Build() *Index {
	idx := &Index{records: make(map[Key]Record, len(b.acc))}
	for key, a := range b.acc {
		r := newRecord(key)

		for i := 0; i < categoryCount; i++ {
			if a.capPresent[i] {
				r.Cap[i] = a.capSum[i]
			}
			if a.focupWeightSum[i] > 0 {
				r.Focup[i] = a.focupWeightedSum[i] / a.focupWeightSum[i]
			}
		}

		if a.faCount > 0 {
			r.FA = a.faSum / float64(a.faCount)
		} else {
			r.FA = math.NaN()
		}

		idx.records[key] = r
	}
	return idx
}
