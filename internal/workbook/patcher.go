package workbook

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pverbeek/ganttvoice/internal/domain/update"
	"github.com/xuri/excelize/v2"
)

// ErrNoSheet indicates a workbook without any worksheet.
var ErrNoSheet = errors.New("workbook has no sheets")

// Date cells are rewritten in these fixed columns of the matched row. This
// is part of the workbook contract, like the ingest layout.
const (
	startDateCol = 3
	endDateCol   = 4
)

// dateFormat is the only accepted format for incoming update dates.
const dateFormat = "2006-01-02"

// Patcher applies accepted project updates onto a stored workbook in place.
type Patcher struct {
	logger *slog.Logger
}

// NewPatcher creates a workbook patcher.
func NewPatcher(logger *slog.Logger) *Patcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Patcher{logger: logger}
}

// Apply locates each update's project by case-insensitive substring search
// over the sheet and overwrites the date columns of the first matching row,
// then saves the workbook back to path. Updates whose dates do not parse are
// skipped silently; the count of rows actually written is returned. Prior
// cell values are unrecoverable after the save.
func (p *Patcher) Apply(path string, updates []update.ProjectUpdate) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return 0, ErrNoSheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("read rows: %w", err)
	}

	applied := 0
	for _, u := range updates {
		start, err := time.Parse(dateFormat, u.NewStartDate)
		if err != nil {
			p.logger.Debug("skipping update with unparseable start date", "project", u.ProjectName, "value", u.NewStartDate)
			continue
		}
		end, err := time.Parse(dateFormat, u.NewEndDate)
		if err != nil {
			p.logger.Debug("skipping update with unparseable end date", "project", u.ProjectName, "value", u.NewEndDate)
			continue
		}

		rowIdx, ok := findRow(rows, u.ProjectName)
		if !ok {
			p.logger.Debug("no cell matches project", "project", u.ProjectName)
			continue
		}

		startCell, err := excelize.CoordinatesToCellName(startDateCol, rowIdx)
		if err != nil {
			continue
		}
		endCell, err := excelize.CoordinatesToCellName(endDateCol, rowIdx)
		if err != nil {
			continue
		}
		if err := f.SetCellValue(sheet, startCell, start.Format(dateFormat)); err != nil {
			continue
		}
		if err := f.SetCellValue(sheet, endCell, end.Format(dateFormat)); err != nil {
			continue
		}
		applied++
	}

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("save workbook: %w", err)
	}

	p.logger.Info("workbook patched", "path", path, "updates", len(updates), "applied", applied)
	return applied, nil
}

// findRow returns the 1-based row of the first cell whose value contains
// name, case-insensitively, scanning rows top to bottom.
func findRow(rows [][]string, name string) (int, bool) {
	needle := strings.ToLower(name)
	for i, row := range rows {
		for _, cell := range row {
			if cell != "" && strings.Contains(strings.ToLower(cell), needle) {
				return i + 1, true
			}
		}
	}
	return 0, false
}
