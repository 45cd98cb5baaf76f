// Package pipeline implements the driver (spec component C7) that orders
// C2 → C3 → C4 → C5 → C6 row by row and owns the OD row table.
//
// Grounded on services/simulation-svc/internal/engine/monte_carlo.go's
// task-channel worker pool: a fixed pool of goroutines pulls row indices
// from a channel and checks ctx.Done() cooperatively between units of work.
package pipeline

import (
	"math"
	"strconv"
	"strings"

	"checkflow/internal/capacity"
	"checkflow/internal/congruence"
	"checkflow/internal/network"
	"checkflow/internal/routing"
	"checkflow/internal/vehicle"
)

// RawTripsLessThan10 is the censored-count literal the source system emits
// in place of an exact value below the reporting threshold (spec §3, §6).
const RawTripsLessThan10 = "<10"

// Row is one OD row: the raw survey fields plus every field C2 through C6
// derive from them (spec §3 "OD row").
type Row struct {
	OriginZone      string
	DestinationZone string
	RawTripCount    string
	CheckpointID    string

	TripsPerson      int
	IntrazonalFactor int

	McLengthM  float64
	Mc2LengthM float64
	SenseCode  string

	CapacityRecord capacity.Record
	HasCapacity    bool

	CongruenceID congruence.Class
	E1, E2       float64

	Vehicles vehicle.Counts
}

// ParseTripsPerson implements the trips_person derivation (spec §3, §8):
// the censored sentinel, a missing value, and any numeric value under 10
// all collapse to 1; otherwise the raw count is rounded to the nearest
// integer.
func ParseTripsPerson(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == RawTripsLessThan10 {
		return 1
	}
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 1
	}
	if val < 10 {
		return 1
	}
	return int(math.Round(val))
}

// NewRow derives the static fields (trips_person, intrazonal_factor) that
// do not depend on routing or capacity, leaving the rest zero-valued until
// the driver processes the row.
func NewRow(originZone, destinationZone, rawTripCount, checkpointID string) *Row {
	r := &Row{
		OriginZone:      originZone,
		DestinationZone: destinationZone,
		RawTripCount:    rawTripCount,
		CheckpointID:    checkpointID,
		TripsPerson:     ParseTripsPerson(rawTripCount),
	}
	if originZone == destinationZone {
		r.IntrazonalFactor = 1
	}
	return r
}

// zeroOut forces every derived field to the "general query" / unroutable
// default: no routing or capacity work was attempted, congruence is
// Impossible, and every vehicle count is zero (spec §6: "For queries of
// the general type ... no routing or capacity work is done").
func (r *Row) zeroOut() {
	r.McLengthM = network.NoPath
	r.Mc2LengthM = network.NoPath
	r.SenseCode = routing.SenseInvalid
	r.HasCapacity = false
	r.CapacityRecord = capacity.Record{}
	r.CongruenceID = congruence.ClassImpossible
	r.E1, r.E2 = 0, 0
	r.Vehicles = vehicle.Counts{}
}
