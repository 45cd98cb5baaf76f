// Package ingest implements the boundary spec.md §6 deliberately places
// outside the core: CSV ingestion and column normalization, loading the
// road network and zone/checkpoint centroids, and loading the capacity
// table (from CSV or, as a supplemented alternative, from Postgres).
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"checkflow/internal/pipeline"
)

// droppedODColumns are the column names spec §6 requires to be dropped at
// ingest: "the core never reads a direction from the input."
var droppedODColumns = map[string]struct{}{
	"sense":      {},
	"sentido":    {},
	"sense_code": {},
	"direction":  {},
	"direccion":  {},
}

// CheckpointIDFromFilename lifts the checkpoint identifier from the OD
// filename stem: the substring after a fixed prefix (spec §6, e.g. the
// digits after "checkpoint").
func CheckpointIDFromFilename(path, prefix string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimPrefix(stem, prefix)
}

// ReadOD reads an OD CSV and returns one *pipeline.Row per record, with
// trips_person and intrazonal_factor already derived (spec §3 "OD row").
// Required columns after header normalization: origin_id, destination_id,
// total_trips. Any column in droppedODColumns is ignored even if present.
func ReadOD(r io.Reader, checkpointID string) ([]*pipeline.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: reading OD header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if _, dropped := droppedODColumns[normalized]; dropped {
			continue
		}
		colIndex[normalized] = i
	}

	originIdx, ok := colIndex["origin_id"]
	if !ok {
		return nil, fmt.Errorf("ingest: OD file missing required column origin_id")
	}
	destIdx, ok := colIndex["destination_id"]
	if !ok {
		return nil, fmt.Errorf("ingest: OD file missing required column destination_id")
	}
	tripsIdx, ok := colIndex["total_trips"]
	if !ok {
		return nil, fmt.Errorf("ingest: OD file missing required column total_trips")
	}

	var rows []*pipeline.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: reading OD row: %w", err)
		}

		rows = append(rows, pipeline.NewRow(
			strings.TrimSpace(record[originIdx]),
			strings.TrimSpace(record[destIdx]),
			strings.TrimSpace(record[tripsIdx]),
			checkpointID,
		))
	}

	return rows, nil
}
