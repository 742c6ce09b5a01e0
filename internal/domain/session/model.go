package session

import (
	"time"

	"github.com/pverbeek/ganttvoice/internal/domain/activity"
)

// Session holds the state produced by one spreadsheet upload: the temp-file
// location of the workbook and the activity list parsed from it. A new upload
// replaces the session wholesale; nothing is merged.
type Session struct {
	ID           string
	Filename     string
	WorkbookPath string
	Activities   []activity.Record
	TotalRows    int
	CreatedAt    time.Time
}
