package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"roomres/internal/model"
)

// Exporter writes daily schedules to xlsx workbooks.
type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

var scheduleColumns = []string{
	"Reservation ID", "Date", "Room", "Start Time", "End Time",
	"Student Name", "Student Number",
}

// ExportSchedule writes the reservations for one date to an xlsx file
// and returns its path.
func (e *Exporter) ExportSchedule(date string, reservations []model.Reservation) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Schedule"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range scheduleColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return "", err
		}
	}

	// Bold header row.
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(scheduleColumns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}

	for row, r := range reservations {
		values := []interface{}{
			r.ID, r.Date, r.Room, r.StartTime, r.EndTime,
			r.StudentName, r.StudentNumber,
		}
		for col, val := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return "", err
			}
		}
	}

	name := fmt.Sprintf("schedule_%s.xlsx", strings.ReplaceAll(date, "/", "-"))
	path := filepath.Join(e.dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}
