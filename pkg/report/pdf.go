package report

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"checkflow/internal/capacity"
)

var (
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141}

	titleStyle = props.Text{Size: 20, Style: fontstyle.Bold, Align: align.Center, Color: headerBgColor}
	h2Style    = props.Text{Size: 13, Style: fontstyle.Bold, Color: headerBgColor, Top: 4}
	normalStyle = props.Text{Size: 10}
	smallStyle  = props.Text{Size: 8, Color: darkGrayColor}
)

// GeneratePDF renders a one-page summary document for a completed run:
// checkpoint, row counts per congruence class, and total vehicle counts
// per category. It does not repeat the full row table — that belongs to
// the output CSV and the "Rows" Excel sheet.
func GeneratePDF(summary Summary) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, "Vehicle Disaggregation Run Summary", titleStyle))
	m.AddRow(4, line.NewCol(12))
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Checkpoint: %s", summary.CheckpointID), normalStyle))
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Total rows: %d", summary.TotalRows), normalStyle))

	addRowsByClass(m, summary)
	addVehiclesByCategory(m, summary)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("report: generating PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addRowsByClass(m core.Maroto, s Summary) {
	m.AddRow(8, text.NewCol(12, "Rows by congruence class", h2Style))
	for class := 1; class <= 4; class++ {
		m.AddRow(5,
			text.NewCol(8, classLabel(class), smallStyle),
			text.NewCol(4, fmt.Sprintf("%d", s.RowsByClass[class]), props.Text{Size: 8, Align: align.Right}),
		)
	}
}

func addVehiclesByCategory(m core.Maroto, s Summary) {
	m.AddRow(8, text.NewCol(12, "Total vehicles by category", h2Style))
	for _, cat := range capacity.Categories {
		m.AddRow(5,
			text.NewCol(8, cat.String(), smallStyle),
			text.NewCol(4, fmt.Sprintf("%.2f", s.VehiclesByCat[cat]), props.Text{Size: 8, Align: align.Right}),
		)
	}
	m.AddRow(5,
		text.NewCol(8, "TOTAL", normalStyle),
		text.NewCol(4, fmt.Sprintf("%.2f", s.VehiclesTotal), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
}

func classLabel(class int) string {
	switch class {
	case 1:
		return "1 - extremely possible"
	case 2:
		return "2 - possible"
	case 3:
		return "3 - unlikely"
	case 4:
		return "4 - impossible"
	default:
		return fmt.Sprintf("%d", class)
	}
}
