// Package output writes the final output CSV, the boundary spec.md §6
// deliberately places outside the core: "writing the final output CSV."
//
// Grounded on services/report-svc/internal/generator/csv.go's error-tracking
// csvWriter wrapper and FormatFloat helper.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"checkflow/internal/pipeline"
)

// header is the exact output schema spec §6 fixes. No other columns are
// permitted, and it never varies by query type: a general-query row (no
// checkpoint) still emits it, every veh_* column simply zero.
var header = []string{"Origen", "Destino", "veh_M", "veh_A", "veh_B", "veh_CU", "veh_CAI", "veh_CAII", "veh_total"}

// csvWriter tracks the first write error so callers can fire-and-forget
// each row and check once at the end, mirroring the report generator's
// csvWriter.
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

// WriteRows writes rows to w in the exact schema and order spec §6 fixes.
// Row order matches rows' order; callers are responsible for not calling
// this after a cancelled run, since a cancelled run must produce no output
// CSV (spec §4.6 cancellation policy).
func WriteRows(w io.Writer, rows []*pipeline.Row) error {
	cw := &csvWriter{w: csv.NewWriter(w)}

	cw.Write(header)
	for _, row := range rows {
		cw.Write([]string{
			row.OriginZone,
			row.DestinationZone,
			formatFloat(row.Vehicles.M()),
			formatFloat(row.Vehicles.A()),
			formatFloat(row.Vehicles.B()),
			formatFloat(row.Vehicles.CU()),
			formatFloat(row.Vehicles.CAI()),
			formatFloat(row.Vehicles.CAII()),
			formatFloat(row.Vehicles.Total),
		})
	}

	cw.Flush()
	if cw.err != nil {
		return fmt.Errorf("output: writing CSV: %w", cw.err)
	}
	return nil
}

// formatFloat renders a vehicle count to six decimal places, matching the
// example tolerances in spec.md §9 (1e-5/1e-6). NaN is written literally,
// since gate 3 (spec §4.6) intends it to be visible rather than masked.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}
