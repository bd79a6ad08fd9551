// Package imposition computes the booklet page order and drives the
// rendering of output sheets.
package imposition

import "fmt"

// Slot is one grid cell on an output sheet. It holds either a zero-based
// source page index or nothing.
type Slot struct {
	page   int
	filled bool
}

// Blank is the empty slot.
var Blank = Slot{}

// PageSlot returns a slot holding the given source page.
func PageSlot(page int) Slot {
	return Slot{page: page, filled: true}
}

// Page returns the source page index and whether the slot holds one.
func (s Slot) Page() (int, bool) {
	return s.page, s.filled
}

// IsBlank reports whether nothing is drawn in the slot.
func (s Slot) IsBlank() bool {
	return !s.filled
}

func (s Slot) String() string {
	if !s.filled {
		return "blank"
	}
	return fmt.Sprint(s.page)
}

// PaddedCount rounds pageCount up to the next multiple of 2*columns*rows.
func PaddedCount(pageCount, columns, rows int) int {
	double := 2 * columns * rows
	return (pageCount + double - 1) / double * double
}

// Order returns the printing order of pageCount source pages.
//
// The padded index range [0, PaddedCount) is consumed from both ends: each
// step takes the last rows indices, then the first 2*rows, then the last rows
// again. Indices at or beyond pageCount become Blank.
func Order(pageCount, columns, rows int) []Slot {
	if pageCount <= 0 || columns < 1 || rows < 1 {
		return nil
	}
	padded := PaddedCount(pageCount, columns, rows)
	order := make([]Slot, 0, padded)

	emit := func(from, n int) {
		for i := from; i < from+n; i++ {
			if i < pageCount {
				order = append(order, PageSlot(i))
			} else {
				order = append(order, Blank)
			}
		}
	}

	// head and tail are inclusive bounds of what is left.
	head, tail := 0, padded-1
	for head <= tail {
		n := min(rows, tail-head+1)
		emit(tail-n+1, n)
		tail -= n

		n = min(2*rows, tail-head+1)
		emit(head, n)
		head += n

		n = min(rows, tail-head+1)
		emit(tail-n+1, n)
		tail -= n
	}
	return order
}

// Sheets splits an order into consecutive groups of perSheet slots. The
// last group is padded with Blank.
func Sheets(order []Slot, perSheet int) [][]Slot {
	if perSheet < 1 {
		return nil
	}
	var sheets [][]Slot
	for start := 0; start < len(order); start += perSheet {
		sheet := make([]Slot, perSheet)
		copy(sheet, order[start:min(start+perSheet, len(order))])
		sheets = append(sheets, sheet)
	}
	return sheets
}
