// Package report produces optional XLSX and PDF summary workbooks for a
// completed run, supplementing the mandatory output CSV (spec §6's output
// boundary covers the CSV only; a summary report is additional, not a
// replacement).
//
// Grounded on services/report-svc/internal/generator/excel.go's sheet/style
// construction and cellAddr helper.
package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"checkflow/internal/capacity"
	"checkflow/internal/pipeline"
)

// Summary aggregates a completed run for the report sheets: total rows,
// rows per congruence class, and total vehicles per category across the
// whole run.
type Summary struct {
	CheckpointID   string
	TotalRows      int
	RowsByClass    map[int]int
	VehiclesByCat  [6]float64
	VehiclesTotal  float64
}

// Summarize folds rows into a Summary.
func Summarize(checkpointID string, rows []*pipeline.Row) Summary {
	s := Summary{CheckpointID: checkpointID, RowsByClass: make(map[int]int)}
	for _, row := range rows {
		s.TotalRows++
		s.RowsByClass[int(row.CongruenceID)]++
		for _, cat := range capacity.Categories {
			v := row.Vehicles.Values[cat]
			if !math.IsNaN(v) {
				s.VehiclesByCat[cat] += v
			}
		}
		if !math.IsNaN(row.Vehicles.Total) {
			s.VehiclesTotal += row.Vehicles.Total
		}
	}
	return s
}

func cellAddr(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// GenerateExcel writes a two-sheet workbook: "Rows" with every output row
// in the output CSV's column order, and "Summary" with the aggregate
// counts Summarize computed.
func GenerateExcel(rows []*pipeline.Row, summary Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("report: building header style: %w", err)
	}

	if err := writeRowsSheet(f, rows, headerStyle); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, summary, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("report: writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRowsSheet(f *excelize.File, rows []*pipeline.Row, headerStyle int) error {
	const sheet = "Rows"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("report: creating Rows sheet: %w", err)
	}

	headers := []string{"Origen", "Destino", "veh_M", "veh_A", "veh_B", "veh_CU", "veh_CAI", "veh_CAII", "veh_total"}
	for i, h := range headers {
		col := string(rune('A' + i))
		f.SetCellValue(sheet, cellAddr(col, 1), h)
	}
	f.SetCellStyle(sheet, cellAddr("A", 1), cellAddr("I", 1), headerStyle)

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheet, cellAddr("A", r), row.OriginZone)
		f.SetCellValue(sheet, cellAddr("B", r), row.DestinationZone)
		f.SetCellValue(sheet, cellAddr("C", r), row.Vehicles.M())
		f.SetCellValue(sheet, cellAddr("D", r), row.Vehicles.A())
		f.SetCellValue(sheet, cellAddr("E", r), row.Vehicles.B())
		f.SetCellValue(sheet, cellAddr("F", r), row.Vehicles.CU())
		f.SetCellValue(sheet, cellAddr("G", r), row.Vehicles.CAI())
		f.SetCellValue(sheet, cellAddr("H", r), row.Vehicles.CAII())
		f.SetCellValue(sheet, cellAddr("I", r), row.Vehicles.Total)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s Summary, headerStyle int) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("report: creating Summary sheet: %w", err)
	}
	f.SetActiveSheet(0)

	line := 1
	f.SetCellValue(sheet, cellAddr("A", line), "Checkpoint")
	f.SetCellValue(sheet, cellAddr("B", line), s.CheckpointID)
	line++
	f.SetCellValue(sheet, cellAddr("A", line), "Total rows")
	f.SetCellValue(sheet, cellAddr("B", line), s.TotalRows)
	line += 2

	f.SetCellValue(sheet, cellAddr("A", line), "Congruence class")
	f.SetCellValue(sheet, cellAddr("B", line), "Rows")
	f.SetCellStyle(sheet, cellAddr("A", line), cellAddr("B", line), headerStyle)
	line++
	for class := 1; class <= 4; class++ {
		f.SetCellValue(sheet, cellAddr("A", line), class)
		f.SetCellValue(sheet, cellAddr("B", line), s.RowsByClass[class])
		line++
	}
	line++

	f.SetCellValue(sheet, cellAddr("A", line), "Category")
	f.SetCellValue(sheet, cellAddr("B", line), "Total vehicles")
	f.SetCellStyle(sheet, cellAddr("A", line), cellAddr("B", line), headerStyle)
	line++
	for _, cat := range capacity.Categories {
		f.SetCellValue(sheet, cellAddr("A", line), cat.String())
		f.SetCellValue(sheet, cellAddr("B", line), s.VehiclesByCat[cat])
		line++
	}
	f.SetCellValue(sheet, cellAddr("A", line), "TOTAL")
	f.SetCellValue(sheet, cellAddr("B", line), s.VehiclesTotal)

	return nil
}
