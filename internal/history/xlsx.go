package history

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/quotapace/internal/models"
)

const sheetName = "History"

var xlsxHeadings = []string{
	"ID", "Date", "Month", "Year", "Shifts",
	"Money Target", "Money Current", "Money %",
	"Phone Target", "Phone Current", "Phone %",
	"Internet Target", "Internet Current", "Internet %",
}

// WriteXLSX writes entries as a spreadsheet with one row per entry.
func WriteXLSX(entries []models.HistoryEntry, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &xlsxHeadings); err != nil {
		return fmt.Errorf("failed to write headings: %w", err)
	}

	for i, e := range entries {
		row := []interface{}{
			e.ID, e.Date, e.Month, e.Year, e.Shifts,
			e.Money.Target, e.Money.Current, e.Money.PercentComplete(),
			e.Phone.Target, e.Phone.Current, e.Phone.PercentComplete(),
			e.Internet.Target, e.Internet.Current, e.Internet.PercentComplete(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
