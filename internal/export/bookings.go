package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var headers = []string{"ID", "Item", "Booker", "Start", "End", "Status"}

// BookingExporter renders booking lists into xlsx workbooks under the exports directory.
type BookingExporter struct {
	dir    string
	logger *zerolog.Logger
	now    func() time.Time
}

func NewBookingExporter(cfg config.ExportConfig, logger *zerolog.Logger) *BookingExporter {
	return &BookingExporter{dir: cfg.Path, logger: logger, now: time.Now}
}

// ExportOwnerBookings writes the owner's bookings to a new workbook and returns its path.
func (e *BookingExporter) ExportOwnerBookings(ownerID int64, state models.BookingState, bookings []*models.Booking) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f, err := e.build(fmt.Sprintf("Owner %d, state %s", ownerID, state), bookings)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("owner_%d_%s_%s.xlsx", ownerID, state, e.now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(bookings)).Msg("Bookings exported")
	return filePath, nil
}

func (e *BookingExporter) build(title string, bookings []*models.Booking) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(sheetName, "A1", title)
	_ = f.MergeCell(sheetName, "A1", "F1")
	if style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err == nil {
		_ = f.SetCellStyle(sheetName, "A1", "A1", style)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	styles := make(map[models.BookingStatus]int)
	for i, b := range bookings {
		row := i + 3
		values := []interface{}{
			b.ID,
			b.ItemName,
			b.BookerName,
			b.Start.Format("02.01.2006 15:04"),
			b.End.Format("02.01.2006 15:04"),
			string(b.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}

		style, ok := styles[b.Status]
		if !ok {
			style, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{statusColor(b.Status)}, Pattern: 1},
			})
			if err != nil {
				continue
			}
			styles[b.Status] = style
		}
		cell, _ := excelize.CoordinatesToCellName(len(values), row)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 18)
	_ = f.SetColWidth(sheetName, "F", "F", 12)

	return f, nil
}

func statusColor(status models.BookingStatus) string {
	switch status {
	case models.StatusApproved:
		return "#C6EFCE"
	case models.StatusRejected:
		return "#FFC7CE"
	default:
		return "#FFEB9C"
	}
}
