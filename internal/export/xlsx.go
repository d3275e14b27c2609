// Package export renders ledger entries as spreadsheets.
package export

import (
	"fmt"
	"io"

	"vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/domain/tithi"
	"vigat-bahee/pkg/rupee"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "बही"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Columns is the header row, in order.
var Columns = []string{"क्रम", "बही", "जाति", "नाम", "पिता का नाम", "गाँव", "आवक", "रकम", "स्थिति", "नेत की तारीख"}

var columnWidths = []float64{6, 20, 12, 20, 20, 16, 12, 12, 10, 14}

// WriteLedger writes one row per entry followed by a totals row.
func WriteLedger(w io.Writer, entries []bahee.Entry, totals bahee.Totals) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Columns); err != nil {
		return fmt.Errorf("header row: %w", err)
	}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	for i, entry := range entries {
		amount := interface{}("")
		if entry.Amount != nil {
			amount = *entry.Amount
		}
		lockDate := ""
		if entry.LockDate != nil {
			lockDate = entry.LockDate.Format(tithi.DateLayout)
		}

		row := []interface{}{
			i + 1,
			entry.HeaderName,
			entry.Caste,
			entry.Name,
			entry.FatherName,
			entry.Village,
			entry.Income,
			amount,
			string(entry.State()),
			lockDate,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("entry row %d: %w", i+1, err)
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, len(entries)+2)
	if err != nil {
		return err
	}
	footer := []interface{}{"", "कुल", "", rupee.Words(totals.Combined), "", "", totals.Income, totals.Amount, "", rupee.Format(totals.Combined)}
	if err := f.SetSheetRow(SheetName, cell, &footer); err != nil {
		return fmt.Errorf("totals row: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
