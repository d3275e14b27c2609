package export

import (
	"bytes"
	"testing"
	"time"

	"vigat-bahee/internal/domain/bahee"

	"github.com/xuri/excelize/v2"
)

func TestWriteLedger(t *testing.T) {
	amount := 51.0
	lockDate := time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC)
	entries := []bahee.Entry{
		{ID: "e1", HeaderName: "Ramesh ji", Name: "Mohan", Village: "Nokha", Income: 100, Amount: &amount},
		{ID: "e2", HeaderName: "Ramesh ji", Name: "Sohan", Income: 21, Locked: true, LockDate: &lockDate},
	}
	totals := bahee.Aggregate(entries)

	var buf bytes.Buffer
	if err := WriteLedger(&buf, entries, totals); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("expected valid workbook, got %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("expected sheet %q, got %v", SheetName, err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header, 2 entries and totals, got %d rows", len(rows))
	}
	if rows[0][3] != Columns[3] {
		t.Fatalf("expected header %q, got %q", Columns[3], rows[0][3])
	}
	if rows[1][3] != "Mohan" || rows[1][7] != "51" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][9] != "2025-10-02" {
		t.Fatalf("expected lock date on locked entry, got %v", rows[2])
	}
	if rows[3][1] != "कुल" || rows[3][9] != "₹172.00" {
		t.Fatalf("unexpected totals row: %v", rows[3])
	}
}

func TestWriteLedgerEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLedger(&buf, nil, bahee.Totals{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected workbook bytes")
	}
}
