package sheets

import "regexp"

var embeddedURL = regexp.MustCompile(`https?://[^\s]+`)

// Cell is one spreadsheet cell. An empty cell has no value at all, which is
// different from a present cell whose formatted text is "".
type Cell struct {
	Value     *string
	Hyperlink string
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	return c.Value == nil
}

// Row is a ragged list of cells. Trailing empty cells are usually omitted
// by the API, so every accessor tolerates out of range indices.
type Row struct {
	Cells []Cell
}

// Cell returns the cell at index, or an empty cell when out of range.
func (r Row) Cell(index int) Cell {
	if index < 0 || index >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[index]
}

// Value returns the formatted text at index, or def when the cell is
// missing or blank.
func (r Row) Value(index int, def string) string {
	c := r.Cell(index)
	if c.Value == nil || *c.Value == "" {
		return def
	}
	return *c.Value
}

// URL returns the explicit hyperlink of the cell at index, falling back to
// the first http(s) URL embedded in its text. It returns "" when neither exists.
func (r Row) URL(index int) string {
	c := r.Cell(index)
	if c.Hyperlink != "" {
		return c.Hyperlink
	}
	if c.Value == nil {
		return ""
	}
	return embeddedURL.FindString(*c.Value)
}

// IsBlank reports whether the row has no non-empty value.
func (r Row) IsBlank() bool {
	for i := range r.Cells {
		if r.Value(i, "") != "" {
			return false
		}
	}
	return true
}

// Block is the grid returned for one requested range.
type Block struct {
	Rows []Row
}

// Row returns the row at index, or an empty row when out of range.
func (b Block) Row(index int) Row {
	if index < 0 || index >= len(b.Rows) {
		return Row{}
	}
	return b.Rows[index]
}

// Sheet is a named tab. Several ranges requested on the same tab produce
// several blocks, in request order.
type Sheet struct {
	Name   string
	Blocks []Block
}

// Block returns the block at index, or an empty block when out of range.
func (s *Sheet) Block(index int) Block {
	if s == nil || index < 0 || index >= len(s.Blocks) {
		return Block{}
	}
	return s.Blocks[index]
}

// Spreadsheet is the parsed result of a batched fetch.
type Spreadsheet struct {
	ID     string
	Sheets map[string]*Sheet
	// Raw is the response body the spreadsheet was parsed from.
	Raw []byte
}

// Sheet returns the named sheet and whether it was present in the response.
func (s *Spreadsheet) Sheet(name string) (*Sheet, bool) {
	if s == nil {
		return nil, false
	}
	sh, ok := s.Sheets[name]
	return sh, ok
}
