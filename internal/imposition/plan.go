package imposition

import (
	"github.com/t12nslookup/hexapdf-nup/internal/layout"
)

// Plan holds everything needed to render a booklet: the sheet layout, the
// shared placement geometry and the slots of every sheet.
type Plan struct {
	Layout   layout.Layout
	Geometry layout.Geometry
	Sheets   [][]Slot
}

// NewPlan computes the plan for pageCount source pages of the given size.
func NewPlan(l layout.Layout, pageCount int, srcWidth, srcHeight float64) (*Plan, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	p := &Plan{
		Layout: l,
		Sheets: Sheets(Order(pageCount, l.Columns, l.Rows), l.SlotsPerSheet()),
	}
	if pageCount > 0 {
		p.Geometry = l.Fit(srcWidth, srcHeight)
	}
	return p, nil
}

// Placement is a source page positioned on a sheet.
type Placement struct {
	Column, Row int
	Page        int
	X, Y        float64
	Width       float64
	Height      float64
}

// Placements lists the non-blank slots of the given sheet, columns first.
func (p *Plan) Placements(sheet int) []Placement {
	slots := p.Sheets[sheet]
	var out []Placement
	i := 0
	for col := 0; col < p.Layout.Columns; col++ {
		for row := 0; row < p.Layout.Rows; row++ {
			page, ok := slots[i].Page()
			i++
			if !ok {
				continue
			}
			x, y := p.Layout.Origin(col, row, p.Geometry)
			out = append(out, Placement{
				Column: col,
				Row:    row,
				Page:   page,
				X:      x,
				Y:      y,
				Width:  p.Geometry.Width,
				Height: p.Geometry.Height,
			})
		}
	}
	return out
}
