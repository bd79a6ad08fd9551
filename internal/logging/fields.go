package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Pages adds the source page count.
func Pages(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("pages", n)
	}
}

// Sheets adds the output sheet count.
func Sheets(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("sheets", n)
	}
}

// Sheet adds a one-based output sheet number.
func Sheet(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("sheet", n)
	}
}

// Page adds a zero-based source page index.
func Page(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("page", n)
	}
}

// Cell adds the grid column and row.
func Cell(col, row int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("col", col).Int("row", row)
	}
}

// Box adds a placement rectangle.
func Box(x, y, width, height float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64("x", x).Float64("y", y).Float64("width", width).Float64("height", height)
	}
}

// Scale adds the page scale factor.
func Scale(f float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64("scale", f)
	}
}

// Path adds a file path.
func Path(key, p string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, p)
	}
}

// RequestID adds a request ID field.
func RequestID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("request_id", id)
	}
}

// Bytes adds a payload size.
func Bytes(key string, n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}
