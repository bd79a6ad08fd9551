// Package pdftest builds small source PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
)

// Fixture describes a document of identical pages.
type Fixture struct {
	Pages         int
	Width, Height float64
	Rotate        int

	// CropBox is llx, lly, urx, ury. It is omitted when nil.
	CropBox []float64
}

// Bytes renders a minimal valid PDF. Every page strokes a diagonal with a
// line width equal to its one-based page number.
func (f Fixture) Bytes() []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	var kids bytes.Buffer
	for i := 0; i < f.Pages; i++ {
		fmt.Fprintf(&kids, "%d 0 R ", 3+2*i)
	}
	obj("<</Type/Catalog/Pages 2 0 R>>")
	obj(fmt.Sprintf("<</Type/Pages/Kids[%s]/Count %d>>", kids.String(), f.Pages))

	for i := 0; i < f.Pages; i++ {
		attrs := ""
		if f.Rotate != 0 {
			attrs = fmt.Sprintf("/Rotate %d", f.Rotate)
		}
		if len(f.CropBox) == 4 {
			attrs += fmt.Sprintf("/CropBox[%g %g %g %g]", f.CropBox[0], f.CropBox[1], f.CropBox[2], f.CropBox[3])
		}
		obj(fmt.Sprintf("<</Type/Page/Parent 2 0 R/MediaBox[0 0 %g %g]%s/Contents %d 0 R/Resources<<>>>>",
			f.Width, f.Height, attrs, 4+2*i))
		content := fmt.Sprintf("%d w 0 0 m %g %g l S", i+1, f.Width, f.Height)
		obj(fmt.Sprintf("<</Length %d>>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	fmt.Fprintf(&buf, "%010d %05d f \n", 0, 65535)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d %05d n \n", off, 0)
	}
	fmt.Fprintf(&buf, "trailer\n<</Size %d/Root 1 0 R>>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}
