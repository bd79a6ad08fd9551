package imposition

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/t12nslookup/hexapdf-nup/internal/layout"
)

type drawn struct {
	Page       int
	X, Y, W, H float64
}

type fakeSheet struct {
	width, height float64
	lines         [][4]float64
	placed        []drawn
	closed        bool
	failPage      int
}

func (s *fakeSheet) DashedLine(x1, y1, x2, y2 float64, dash []float64) {
	s.lines = append(s.lines, [4]float64{x1, y1, x2, y2})
}

func (s *fakeSheet) Place(page int, x, y, w, h float64) error {
	if page == s.failPage {
		return errBadPage
	}
	s.placed = append(s.placed, drawn{page, x, y, w, h})
	return nil
}

func (s *fakeSheet) Close() error {
	s.closed = true
	return nil
}

var errBadPage = errors.New("bad page")

type fakeDoc struct {
	pages         int
	width, height float64
	sizeErr       error
	failPage      int
	sheets        []*fakeSheet
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) PageSize(page int) (float64, float64, error) {
	return d.width, d.height, d.sizeErr
}

func (d *fakeDoc) NewSheet(w, h float64) (Sheet, error) {
	s := &fakeSheet{width: w, height: h, failPage: d.failPage}
	d.sheets = append(d.sheets, s)
	return s, nil
}

func TestRunSixteenPages(t *testing.T) {
	doc := &fakeDoc{pages: 16, width: 595, height: 842, failPage: -1}
	n, err := Run(doc, layout.Default())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(doc.sheets) != 2 {
		t.Fatalf("Run() = %d sheets (%d created), want 2", n, len(doc.sheets))
	}

	first := doc.sheets[0]
	if first.width != 595 || first.height != 842 {
		t.Errorf("sheet size %gx%g, want 595x842", first.width, first.height)
	}
	if diff := cmp.Diff([][4]float64{{297, 80, 297, 762}}, first.lines); diff != "" {
		t.Errorf("guide line mismatch (-want +got):\n%s", diff)
	}
	want := []drawn{
		{12, 20, 637, 131, 185},
		{13, 20, 431, 131, 185},
		{14, 20, 226, 131, 185},
		{15, 20, 20, 131, 185},
		{0, 317, 637, 131, 185},
		{1, 317, 431, 131, 185},
		{2, 317, 226, 131, 185},
		{3, 317, 20, 131, 185},
	}
	if diff := cmp.Diff(want, first.placed); diff != "" {
		t.Errorf("first sheet mismatch (-want +got):\n%s", diff)
	}
	for i, s := range doc.sheets {
		if !s.closed {
			t.Errorf("sheet %d not closed", i)
		}
	}
}

func TestRunSkipsBlanks(t *testing.T) {
	doc := &fakeDoc{pages: 17, width: 720, height: 405, failPage: -1}
	n, err := Run(doc, layout.Default())
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("Run() = %d, want 4", n)
	}
	total := 0
	for _, s := range doc.sheets {
		total += len(s.placed)
		for _, p := range s.placed {
			if p.Page >= 17 {
				t.Errorf("blank index %d was drawn", p.Page)
			}
		}
	}
	if total != 17 {
		t.Errorf("placed %d pages, want 17", total)
	}

	// The first sheet starts with four blanks down the left column.
	var got []int
	for _, p := range doc.sheets[0].placed {
		got = append(got, p.Page)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, got); diff != "" {
		t.Errorf("first sheet pages mismatch (-want +got):\n%s", diff)
	}
	if x := doc.sheets[0].placed[0].X; x != 317 {
		t.Errorf("first placement in column at x=%g, want 317", x)
	}
}

func TestRunNoPages(t *testing.T) {
	doc := &fakeDoc{failPage: -1, sizeErr: errors.New("must not be called")}
	n, err := Run(doc, layout.Default())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || len(doc.sheets) != 0 {
		t.Errorf("Run() = %d sheets, want 0", n)
	}
}

func TestRunErrors(t *testing.T) {
	sizeErr := errors.New("no box")
	doc := &fakeDoc{pages: 3, sizeErr: sizeErr, failPage: -1}
	if _, err := Run(doc, layout.Default()); !errors.Is(err, sizeErr) {
		t.Errorf("Run() error = %v, want %v", err, sizeErr)
	}

	doc = &fakeDoc{pages: 3, width: 100, height: 100, failPage: 2}
	if _, err := Run(doc, layout.Default()); !errors.Is(err, errBadPage) {
		t.Errorf("Run() error = %v, want %v", err, errBadPage)
	}

	bad := layout.Default()
	bad.Rows = 0
	doc = &fakeDoc{pages: 3, width: 100, height: 100, failPage: -1}
	var verr *layout.ValidationError
	if _, err := Run(doc, bad); !errors.As(err, &verr) {
		t.Errorf("Run() error = %v, want *layout.ValidationError", err)
	}
}
