// Package layout describes the physical output sheet and the geometry used to
// place scaled source pages into its grid of slots.
package layout

import (
	"fmt"
	"math"
)

// Default values: A4 portrait, two columns of four rows, 20pt margin.
const (
	DefaultSheetWidth  = 595
	DefaultSheetHeight = 842
	DefaultColumns     = 2
	DefaultRows        = 4
	DefaultMargin      = 20
)

// Layout is the fixed description of an output sheet. All lengths are in
// PDF points.
type Layout struct {
	SheetWidth  float64
	SheetHeight float64
	Columns     int
	Rows        int
	Margin      float64
}

// ValidationError reports an unusable layout field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("layout: invalid %s: %s", e.Field, e.Message)
}

// Default returns the A4 2x4 layout.
func Default() Layout {
	return Layout{
		SheetWidth:  DefaultSheetWidth,
		SheetHeight: DefaultSheetHeight,
		Columns:     DefaultColumns,
		Rows:        DefaultRows,
		Margin:      DefaultMargin,
	}
}

// New returns a validated layout.
func New(sheetWidth, sheetHeight float64, rows int, margin float64) (Layout, error) {
	l := Layout{
		SheetWidth:  sheetWidth,
		SheetHeight: sheetHeight,
		Columns:     DefaultColumns,
		Rows:        rows,
		Margin:      margin,
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks that the layout leaves a positive area for every slot.
// The page order folds the sheet down its vertical centre, so exactly two
// columns are supported.
func (l Layout) Validate() error {
	switch {
	case l.SheetWidth <= 0:
		return &ValidationError{Field: "sheet-width", Message: "must be positive"}
	case l.SheetHeight <= 0:
		return &ValidationError{Field: "sheet-height", Message: "must be positive"}
	case l.Columns != DefaultColumns:
		return &ValidationError{Field: "columns", Message: fmt.Sprintf("must be %d, got %d", DefaultColumns, l.Columns)}
	case l.Rows < 1:
		return &ValidationError{Field: "rows", Message: "must be at least 1"}
	case l.Margin < 0:
		return &ValidationError{Field: "margin", Message: "must not be negative"}
	case l.SlotWidth() <= 0:
		return &ValidationError{Field: "margin", Message: fmt.Sprintf("%g leaves no horizontal room on a %g wide sheet", l.Margin, l.SheetWidth)}
	case l.SlotHeight() <= 0:
		return &ValidationError{Field: "margin", Message: fmt.Sprintf("%g leaves no vertical room on a %g high sheet", l.Margin, l.SheetHeight)}
	}
	return nil
}

// SlotsPerSheet is the number of grid cells on one sheet.
func (l Layout) SlotsPerSheet() int {
	return l.Columns * l.Rows
}

// SlotWidth is the usable width of one column. Gutters between columns are
// twice the outer margin.
func (l Layout) SlotWidth() float64 {
	c := float64(l.Columns)
	return (l.SheetWidth - 2*l.Margin - (c-1)*2*l.Margin) / c
}

// SlotHeight is the usable height of one row.
func (l Layout) SlotHeight() float64 {
	r := float64(l.Rows)
	return (l.SheetHeight - 2*l.Margin - (r-1)*l.Margin) / r
}

// Geometry is the placement size shared by every source page.
type Geometry struct {
	SlotWidth  float64
	SlotHeight float64
	Scale      float64

	// Width and Height are the placed page size, truncated toward zero.
	Width  float64
	Height float64
}

// Fit scales a source page of the given size uniformly so that it fits one
// slot on both axes.
func (l Layout) Fit(srcWidth, srcHeight float64) Geometry {
	g := Geometry{
		SlotWidth:  l.SlotWidth(),
		SlotHeight: l.SlotHeight(),
	}
	g.Scale = math.Min(g.SlotHeight/srcHeight, g.SlotWidth/srcWidth)
	g.Width = math.Trunc(srcWidth * g.Scale)
	g.Height = math.Trunc(srcHeight * g.Scale)
	return g
}

// Origin returns the lower left corner of the page placed at the given
// column and row. Rows count from the top of the sheet.
func (l Layout) Origin(col, row int, g Geometry) (x, y float64) {
	x = float64(col)*(g.SlotWidth+2*l.Margin) + l.Margin
	y = l.SheetHeight - l.Margin - g.Height - float64(row)*(g.SlotHeight+l.Margin)
	return math.Trunc(x), math.Trunc(y)
}

// GuideLine returns the end points of the dashed fold line drawn down the
// centre of every sheet.
func (l Layout) GuideLine() (x1, y1, x2, y2 float64) {
	x := math.Trunc(l.SheetWidth / 2)
	return x, 4 * l.Margin, x, l.SheetHeight - 4*l.Margin
}
