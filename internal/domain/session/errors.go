package session

import "errors"

var (
	// ErrNoWorkbook indicates no spreadsheet has been uploaded yet.
	ErrNoWorkbook = errors.New("no workbook uploaded")
)
