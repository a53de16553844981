package export

import (
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportOwnerBookings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	logger := zerolog.Nop()
	e := NewBookingExporter(config.ExportConfig{Path: dir}, &logger)
	e.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	bookings := []*models.Booking{
		{ID: 3, ItemName: "Drill", BookerName: "Bob", Start: start, End: start.Add(48 * time.Hour), Status: models.StatusApproved},
		{ID: 1, ItemName: "Saw", BookerName: "Eve", Start: start, End: start.Add(time.Hour), Status: models.StatusWaiting},
	}

	path, err := e.ExportOwnerBookings(9, models.StateAll, bookings)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "owner_9_ALL_2025-06-01_12-00-00.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, headers, rows[1])
	assert.Equal(t, []string{"3", "Drill", "Bob", "10.01.2025 10:00", "12.01.2025 10:00", "APPROVED"}, rows[2])
	assert.Equal(t, "WAITING", rows[3][5])

	approved, err := f.GetCellStyle(sheetName, "F3")
	require.NoError(t, err)
	waiting, err := f.GetCellStyle(sheetName, "F4")
	require.NoError(t, err)
	assert.NotEqual(t, approved, waiting)
}

func TestExportOwnerBookings_Empty(t *testing.T) {
	logger := zerolog.Nop()
	e := NewBookingExporter(config.ExportConfig{Path: t.TempDir()}, &logger)

	path, err := e.ExportOwnerBookings(9, models.StateRejected, nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
