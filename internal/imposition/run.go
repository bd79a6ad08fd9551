package imposition

import (
	"fmt"

	"github.com/t12nslookup/hexapdf-nup/internal/layout"
	"github.com/t12nslookup/hexapdf-nup/internal/logging"
)

// GuideDash is the dash pattern of the fold line: 10pt on, 2pt off.
var GuideDash = []float64{10, 2}

// Document is the source and destination of an imposition run.
type Document interface {
	// PageCount returns the number of source pages.
	PageCount() int
	// PageSize returns the visible size of a zero-based source page.
	PageSize(page int) (width, height float64, err error)
	// NewSheet appends an empty output sheet.
	NewSheet(width, height float64) (Sheet, error)
}

// Sheet is an output page being drawn.
type Sheet interface {
	DashedLine(x1, y1, x2, y2 float64, dash []float64)
	// Place draws a source page with its lower left corner at (x, y),
	// scaled to width x height.
	Place(page int, x, y, width, height float64) error
	Close() error
}

// Run imposes every page of doc onto new sheets and returns the number of
// sheets created. The size of the first source page is used for all pages.
func Run(doc Document, l layout.Layout) (int, error) {
	count := doc.PageCount()
	var w, h float64
	if count > 0 {
		var err error
		w, h, err = doc.PageSize(0)
		if err != nil {
			return 0, fmt.Errorf("reading size of first page: %w", err)
		}
	}

	plan, err := NewPlan(l, count, w, h)
	if err != nil {
		return 0, err
	}
	logging.Debug().
		Add(logging.Pages(count)).
		Add(logging.Sheets(len(plan.Sheets))).
		Add(logging.Scale(plan.Geometry.Scale)).
		Msg("imposition planned")

	for i := range plan.Sheets {
		if err := drawSheet(doc, plan, i); err != nil {
			return 0, fmt.Errorf("sheet %d: %w", i+1, err)
		}
	}
	return len(plan.Sheets), nil
}

func drawSheet(doc Document, plan *Plan, i int) error {
	sheet, err := doc.NewSheet(plan.Layout.SheetWidth, plan.Layout.SheetHeight)
	if err != nil {
		return err
	}
	x1, y1, x2, y2 := plan.Layout.GuideLine()
	sheet.DashedLine(x1, y1, x2, y2, GuideDash)

	for _, p := range plan.Placements(i) {
		logging.Debug().
			Add(logging.Sheet(i + 1)).
			Add(logging.Cell(p.Column, p.Row)).
			Add(logging.Page(p.Page)).
			Add(logging.Box(p.X, p.Y, p.Width, p.Height)).
			Msg("placing page")
		if err := sheet.Place(p.Page, p.X, p.Y, p.Width, p.Height); err != nil {
			return fmt.Errorf("placing page %d: %w", p.Page+1, err)
		}
	}
	return sheet.Close()
}
