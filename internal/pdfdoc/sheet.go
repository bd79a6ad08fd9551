package pdfdoc

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Sheet collects the content stream of one output page.
type Sheet struct {
	doc           *Document
	width, height float64
	content       bytes.Buffer
	xobject       types.Dict
	closed        bool
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// DashedLine strokes a line from (x1, y1) to (x2, y2) with the given dash
// array. It does nothing once the sheet is closed.
func (s *Sheet) DashedLine(x1, y1, x2, y2 float64, dash []float64) {
	if s.closed {
		return
	}
	parts := make([]string, len(dash))
	for i, v := range dash {
		parts[i] = num(v)
	}
	fmt.Fprintf(&s.content, "q [%s] 0 d %s %s m %s %s l S Q\n",
		strings.Join(parts, " "), num(x1), num(y1), num(x2), num(y2))
}

// Place draws a source page scaled to width x height with its lower left
// corner at (x, y).
func (s *Sheet) Place(page int, x, y, width, height float64) error {
	if s.closed {
		return ErrSheetClosed
	}
	ref, err := s.doc.form(page)
	if err != nil {
		return err
	}
	w, h, err := s.doc.PageSize(page)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("Fm%d", page)
	s.xobject[name] = *ref
	fmt.Fprintf(&s.content, "q %.5f 0 0 %.5f %.5f %.5f cm /%s Do Q\n", width/w, height/h, x, y, name)
	return nil
}

// Close finishes the page and appends it to the output page tree.
func (s *Sheet) Close() error {
	if s.closed {
		return ErrSheetClosed
	}
	d := s.doc
	ctx := d.ctx

	sd, err := ctx.NewStreamDictForBuf(s.content.Bytes())
	if err != nil {
		return err
	}
	if err := sd.Encode(); err != nil {
		return err
	}
	contentRef, err := ctx.IndRefForNewObject(*sd)
	if err != nil {
		return err
	}

	res := types.Dict{}
	if len(s.xobject) > 0 {
		res["XObject"] = s.xobject
	}
	pageDict := types.Dict{
		"Type":      types.Name("Page"),
		"Parent":    *d.pagesRef,
		"MediaBox":  types.RectForWidthAndHeight(0, 0, s.width, s.height).Array(),
		"Contents":  *contentRef,
		"Resources": res,
	}
	pageRef, err := ctx.IndRefForNewObject(pageDict)
	if err != nil {
		return err
	}

	d.kids = append(d.kids, *pageRef)
	d.open = nil
	s.closed = true
	return nil
}
