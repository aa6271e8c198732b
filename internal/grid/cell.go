package grid

import "strings"

// Sentinel is the placeholder clients render for an ungraded cell or a blank
// lesson field. It normalizes to the empty cell.
const Sentinel = "—"

// Cell is a single normalized grid value. The zero Cell is empty.
type Cell struct {
	value string
}

// NewCell normalizes a raw client- or storage-provided value into a Cell.
func NewCell(raw string) Cell {
	return Cell{value: Normalize(raw)}
}

// Normalize trims surrounding whitespace and collapses the sentinel to the
// canonical empty string. Plain dashes count as the sentinel too, since
// clients substitute them when the em dash is awkward to type. Equality of
// two cells is equality of their normalized forms.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch trimmed {
	case Sentinel, "-", "–":
		return ""
	}
	return trimmed
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	return c.value == ""
}

// String returns the normalized value, empty for an empty cell.
func (c Cell) String() string {
	return c.value
}

// Display returns the value rendered for read-only views, using the sentinel
// for empty cells.
func (c Cell) Display() string {
	if c.value == "" {
		return Sentinel
	}
	return c.value
}
