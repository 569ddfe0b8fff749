package report_generator

import (
	"fmt"
	"strconv"

	"github.com/hrimport/candidate_importer/internal/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Up to this many failing rows are listed in the PDF; the full list lives in
// the CSV error log.
const maxErrorRows = 30

type Generator struct{}

func New() *Generator {
	return &Generator{}
}

// GenerateSummary renders a one-page import summary: counters plus the first
// failing rows.
func (g *Generator) GenerateSummary(outputPath string, task *domain.ImportTask, rowErrors []*domain.RowOutcome) error {
	m := maroto.New()

	m.AddRows(
		text.NewRow(12, "Import summary", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
		text.NewRow(6, fmt.Sprintf("Task %s", task.ID), props.Text{Size: 9, Align: align.Center}),
		text.NewRow(6, fmt.Sprintf("Strategy: %s", task.Strategy), props.Text{Size: 9, Align: align.Center}),
	)

	m.AddRows(
		counterRow("Total rows", task.Total),
		counterRow("Succeeded", task.Succeeded),
		counterRow("Skipped", task.Skipped),
		counterRow("Errored", task.Errored),
	)

	if len(rowErrors) > 0 {
		m.AddRows(text.NewRow(10, "First errors", props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Top:   3,
		}))

		limit := min(len(rowErrors), maxErrorRows)
		for _, outcome := range rowErrors[:limit] {
			m.AddRows(errorRow(outcome))
		}

		if len(rowErrors) > limit {
			m.AddRows(text.NewRow(6,
				fmt.Sprintf("... and %d more, see the error log", len(rowErrors)-limit),
				props.Text{Size: 8, Style: fontstyle.Italic},
			))
		}
	}

	document, err := m.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate summary pdf: %w", err)
	}

	if err := document.Save(outputPath); err != nil {
		return fmt.Errorf("failed to save summary pdf: %w", err)
	}

	return nil
}

func counterRow(label string, value int) core.Row {
	return row.New(6).Add(
		text.NewCol(6, label, props.Text{Size: 10}),
		text.NewCol(6, strconv.Itoa(value), props.Text{Size: 10, Style: fontstyle.Bold}),
	)
}

func errorRow(outcome *domain.RowOutcome) core.Row {
	return row.New(5).Add(
		text.NewCol(2, strconv.Itoa(outcome.Row), props.Text{Size: 8}),
		text.NewCol(4, outcome.Email, props.Text{Size: 8}),
		text.NewCol(6, outcome.Error, props.Text{Size: 8}),
	)
}
