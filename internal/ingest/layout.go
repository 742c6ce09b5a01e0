package ingest

import "errors"

// ErrInvalidLayout indicates a workbook layout that cannot address cells.
var ErrInvalidLayout = errors.New("invalid workbook layout")

// Layout names the positional contract of the Gantt workbook. The source
// workbooks carry a fixed header region and fixed column order, so the
// mapping is configuration rather than something inferred per file. Columns
// are 0-indexed over the sheet grid.
type Layout struct {
	// HeaderRows is the number of leading rows skipped unconditionally.
	HeaderRows int
	ItemIDCol    int
	NameCol      int
	TeamCol      int
	StartDateCol int
	EndDateCol   int
	StatusCol    int
	CompletedCol int
	// HeaderLabels are name-column values treated as header text wherever
	// they appear.
	HeaderLabels []string
	// SectionLabels are section-header rows dropped regardless of position.
	SectionLabels []string
}

// DefaultLayout returns the layout of the planning workbooks this service
// was built around: "#" in column A, "Activiteiten" in column B, team in D,
// start/end dates in E/F, status in H, completion in I, data from row 9 on.
func DefaultLayout() Layout {
	return Layout{
		HeaderRows:    8,
		ItemIDCol:     0,
		NameCol:       1,
		TeamCol:       3,
		StartDateCol:  4,
		EndDateCol:    5,
		StatusCol:     7,
		CompletedCol:  8,
		HeaderLabels:  []string{"activiteiten", "nan"},
		SectionLabels: []string{"generieke services", "autoschade"},
	}
}

// Validate rejects layouts that cannot address the sheet.
func (l Layout) Validate() error {
	if l.HeaderRows < 0 {
		return ErrInvalidLayout
	}
	for _, col := range []int{l.ItemIDCol, l.NameCol, l.TeamCol, l.StartDateCol, l.EndDateCol, l.StatusCol, l.CompletedCol} {
		if col < 0 {
			return ErrInvalidLayout
		}
	}
	if l.NameCol == l.ItemIDCol {
		return ErrInvalidLayout
	}
	return nil
}
