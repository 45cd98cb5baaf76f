package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"checkflow/internal/capacity"
)

// capacityColumns are the CSV headers spec §6 fixes for the capacity table.
// TOTAL is read and discarded: cap_total is always recomputed by the core.
var capacityColumns = []string{
	"Checkpoint", "Sentido",
	"M", "A", "B", "CU", "CAI", "CAII",
	"FA",
	"Focup_M", "Focup_A", "Focup_B", "Focup_CU", "Focup_CAI", "Focup_CAII",
}

// ReadCapacityTable reads a capacity CSV and folds every row into builder.
// Build() is left to the caller so multiple capacity files (e.g. one per
// checkpoint) can be merged into a single index before aggregation runs.
func ReadCapacityTable(r io.Reader, builder *capacity.Builder) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("ingest: reading capacity header: %w", err)
	}

	lookup := make(map[string]int, len(header))
	for i, name := range header {
		lookup[strings.TrimSpace(name)] = i
	}

	idx := make(map[string]int, len(capacityColumns))
	for _, name := range capacityColumns {
		col, ok := lookup[name]
		if !ok {
			return fmt.Errorf("ingest: capacity file missing required column %q", name)
		}
		idx[name] = col
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ingest: reading capacity row: %w", err)
		}

		row := capacity.RawRow{
			CheckpointID: strings.TrimSpace(record[idx["Checkpoint"]]),
			SenseCode:    strings.TrimSpace(record[idx["Sentido"]]),
		}

		for i, cat := range capacity.Categories {
			row.Cap[i] = parseOptionalFloat(record[idx[cat.String()]])
			row.Focup[i] = parseOptionalFloat(record[idx["Focup_"+cat.String()]])
		}
		row.FA = parseOptionalFloat(record[idx["FA"]])

		builder.Add(row)
	}

	return nil
}

// parseOptionalFloat parses a capacity/occupancy cell, treating an empty
// string as MISSING (NaN) rather than a parse error (spec §3 "possibly
// missing").
func parseOptionalFloat(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return math.NaN()
	}
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return val
}
