package imposition

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// pages builds the expected order from raw indices; -1 is Blank.
func pages(idx ...int) []Slot {
	out := make([]Slot, len(idx))
	for i, p := range idx {
		if p >= 0 {
			out[i] = PageSlot(p)
		}
	}
	return out
}

func TestPaddedCount(t *testing.T) {
	tests := []struct {
		pages, want int
	}{
		{0, 0}, {1, 16}, {15, 16}, {16, 16}, {17, 32}, {33, 48},
	}
	for _, tt := range tests {
		if got := PaddedCount(tt.pages, 2, 4); got != tt.want {
			t.Errorf("PaddedCount(%d, 2, 4) = %d, want %d", tt.pages, got, tt.want)
		}
	}
}

func TestOrderSixteen(t *testing.T) {
	got := Order(16, 2, 4)
	want := pages(12, 13, 14, 15, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Slot{})); diff != "" {
		t.Errorf("Order(16) mismatch (-want +got):\n%s", diff)
	}

	sheets := Sheets(got, 8)
	wantSheets := [][]Slot{
		pages(12, 13, 14, 15, 0, 1, 2, 3),
		pages(4, 5, 6, 7, 8, 9, 10, 11),
	}
	if diff := cmp.Diff(wantSheets, sheets, cmp.AllowUnexported(Slot{})); diff != "" {
		t.Errorf("Sheets mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderEmpty(t *testing.T) {
	if got := Order(0, 2, 4); len(got) != 0 {
		t.Errorf("Order(0) = %v, want empty", got)
	}
	if got := Sheets(nil, 8); len(got) != 0 {
		t.Errorf("Sheets(nil) = %v, want none", got)
	}
}

func TestOrderSeventeen(t *testing.T) {
	got := Order(17, 2, 4)
	want := pages(
		28, 29, 30, 31, 0, 1, 2, 3, 4, 5, 6, 7, 24, 25, 26, 27,
		20, 21, 22, 23, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19,
	)
	for i, s := range want {
		if p, ok := s.Page(); ok && p >= 17 {
			want[i] = Blank
		}
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Slot{})); diff != "" {
		t.Errorf("Order(17) mismatch (-want +got):\n%s", diff)
	}
	if n := len(Sheets(got, 8)); n != 4 {
		t.Errorf("got %d sheets, want 4", n)
	}
}

func TestOrderProperties(t *testing.T) {
	for rows := 1; rows <= 5; rows++ {
		for n := 0; n <= 70; n++ {
			order := Order(n, 2, rows)

			if want := PaddedCount(n, 2, rows); len(order) != want {
				t.Fatalf("rows=%d n=%d: len = %d, want %d", rows, n, len(order), want)
			}

			seen := make(map[int]int)
			blanks := 0
			for _, s := range order {
				p, ok := s.Page()
				if !ok {
					blanks++
					continue
				}
				if p < 0 || p >= n {
					t.Fatalf("rows=%d n=%d: page %d out of range", rows, n, p)
				}
				seen[p]++
			}
			for p := 0; p < n; p++ {
				if seen[p] != 1 {
					t.Errorf("rows=%d n=%d: page %d appears %d times", rows, n, p, seen[p])
				}
			}
			if blanks != len(order)-n {
				t.Errorf("rows=%d n=%d: %d blanks, want %d", rows, n, blanks, len(order)-n)
			}

			again := Order(n, 2, rows)
			if diff := cmp.Diff(order, again, cmp.AllowUnexported(Slot{})); diff != "" {
				t.Errorf("rows=%d n=%d: second run differs:\n%s", rows, n, diff)
			}
		}
	}
}

func TestSheetsPadsLastGroup(t *testing.T) {
	got := Sheets(pages(1, 2, 3), 2)
	want := [][]Slot{pages(1, 2), pages(3, -1)}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Slot{})); diff != "" {
		t.Errorf("Sheets mismatch (-want +got):\n%s", diff)
	}
}

func TestSlotString(t *testing.T) {
	if got := PageSlot(7).String(); got != "7" {
		t.Errorf("String() = %q, want 7", got)
	}
	if got := Blank.String(); got != "blank" {
		t.Errorf("String() = %q, want blank", got)
	}
	if !Blank.IsBlank() || PageSlot(0).IsBlank() {
		t.Error("IsBlank() wrong")
	}
}
