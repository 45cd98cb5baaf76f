package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"checkflow/internal/routing"
)

// ReadCatalogue reads the optional catalogue CSV (columns: checkpoint_id,
// sense_code) and returns the permitted-sense-code set it describes (spec
// §6 "Catalogue of valid sense codes"). A checkpoint never mentioned in the
// file is left unconstrained by routing.Catalogue.Allows.
func ReadCatalogue(r io.Reader) (routing.Catalogue, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: reading catalogue header: %w", err)
	}
	cols, err := indexColumns(header, "checkpoint_id", "sense_code")
	if err != nil {
		return nil, fmt.Errorf("ingest: catalogue file: %w", err)
	}
	checkpointIdx, senseIdx := cols[0], cols[1]

	cat := routing.NewCatalogue()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: reading catalogue row: %w", err)
		}
		cat.Add(strings.TrimSpace(record[checkpointIdx]), strings.TrimSpace(record[senseIdx]))
	}

	return cat, nil
}
