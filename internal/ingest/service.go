package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pverbeek/ganttvoice/internal/domain/activity"
	"github.com/xuri/excelize/v2"
)

// ErrNoSheet indicates a workbook without any worksheet.
var ErrNoSheet = errors.New("workbook has no sheets")

// Service parses uploaded planning workbooks into activity records.
type Service struct {
	layout Layout
	logger *slog.Logger
}

// NewService creates an ingest service for the given workbook layout.
func NewService(layout Layout, logger *slog.Logger) (*Service, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{layout: layout, logger: logger}, nil
}

// ParseWorkbook reads the first sheet of the workbook at path and returns
// the activity records in row order plus the total row count of the sheet.
// An unreadable workbook is a single error with no partial result; individual
// cells that fail to parse degrade to default field values instead.
func (s *Service) ParseWorkbook(path string) ([]activity.Record, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, 0, ErrNoSheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("read rows: %w", err)
	}

	records := make([]activity.Record, 0, len(rows))
	for i, row := range rows {
		if i < s.layout.HeaderRows {
			continue
		}
		rec, ok := s.parseRow(f, sheet, i, row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	s.logger.Info("workbook ingested", "path", path, "rows", len(rows), "activities", len(records))
	return records, len(rows), nil
}

// parseRow builds one activity record, or reports the row as non-data.
func (s *Service) parseRow(f *excelize.File, sheet string, idx int, row []string) (activity.Record, bool) {
	name := strings.TrimSpace(cellAt(row, s.layout.NameCol))
	if name == "" || containsFold(s.layout.HeaderLabels, name) {
		return activity.Record{}, false
	}
	if containsFold(s.layout.SectionLabels, name) {
		return activity.Record{}, false
	}

	itemID := strings.TrimSpace(cellAt(row, s.layout.ItemIDCol))
	if strings.EqualFold(itemID, "nan") {
		itemID = ""
	}
	typ, isTitle := activity.Classify(itemID)

	rec := activity.Record{
		Name:         name,
		ItemID:       itemID,
		ActivityType: typ,
		IsTitle:      isTitle,
		Team:         "Unassigned",
		Status:       "Planning",
	}

	if team := strings.TrimSpace(cellAt(row, s.layout.TeamCol)); team != "" && !strings.EqualFold(team, "nan") {
		rec.Team = team
	}
	if status := strings.TrimSpace(cellAt(row, s.layout.StatusCol)); status != "" && !strings.EqualFold(status, "nan") {
		rec.Status = status
	}
	rec.StartDate = normalizeDate(cellAt(row, s.layout.StartDateCol))
	rec.EndDate = normalizeDate(cellAt(row, s.layout.EndDateCol))
	rec.Completed = s.completionAt(f, sheet, idx)

	return rec, true
}

// completionAt reads the completion cell with its type so that numeric cells
// keep fractional semantics and text cells keep percent-string semantics.
func (s *Service) completionAt(f *excelize.File, sheet string, rowIdx int) int {
	cell, err := excelize.CoordinatesToCellName(s.layout.CompletedCol+1, rowIdx+1)
	if err != nil {
		return 0
	}
	ct, err := f.GetCellType(sheet, cell)
	if err != nil {
		return 0
	}
	isText := ct == excelize.CellTypeSharedString || ct == excelize.CellTypeInlineString
	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0
	}
	return activity.ParseCompletion(raw, isText)
}

// dateLayouts covers ISO strings plus the formats excelize renders native
// date cells with. Anything else passes through as-is; downstream consumers
// tolerate free-form date strings.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/06 15:04",
	"1/2/06",
	"1/2/2006",
	"1-2-06",
	"2-Jan-06",
	"2006/01/02",
	time.RFC3339,
}

func normalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
