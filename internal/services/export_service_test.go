package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/renalog/internal/models"
)

func TestBuildCSVRowsLayout(t *testing.T) {
	store := newFakeRecordStore()
	cycles := NewCycleService(store, fakeUrinationStore{store: store}, false)

	cycle, err := cycles.StartCycle(testClock)
	if err != nil {
		t.Fatalf("start cycle: %v", err)
	}
	if _, err := cycles.AddUrinationRecord(cycle.ID, testClock.Add(time.Hour), 400); err != nil {
		t.Fatalf("add record: %v", err)
	}
	if _, err := cycles.AddUrinationRecord(cycle.ID, testClock.Add(2*time.Hour), 350.5); err != nil {
		t.Fatalf("add record: %v", err)
	}
	if _, err := cycles.EndCycle(cycle.ID, testClock.Add(models.CycleDuration)); err != nil {
		t.Fatalf("end cycle: %v", err)
	}
	if _, err := cycles.AttachTestResult(cycle.ID, models.TestResult{Protein: 120, Creatinine: 80, SpecificGravity: 1.015, PH: 6.2}); err != nil {
		t.Fatalf("attach result: %v", err)
	}

	service := NewExportService(store)
	rows, err := service.BuildCSVRows()
	if err != nil {
		t.Fatalf("build rows: %v", err)
	}

	// Summary row, two record rows, blank separator.
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != len(ExportCSVHeaders) {
			t.Fatalf("row %d has %d columns, expected %d", i, len(row), len(ExportCSVHeaders))
		}
	}

	summary := rows[0]
	if summary[0] != cycle.ID {
		t.Fatalf("summary cycle id = %q", summary[0])
	}
	if summary[1] != "2026-03-10 08:00:00" || summary[2] != "2026-03-11 08:00:00" {
		t.Fatalf("unexpected summary times: %q, %q", summary[1], summary[2])
	}
	if summary[3] != "Completed" {
		t.Fatalf("summary status = %q", summary[3])
	}
	if summary[4] != "750.5" {
		t.Fatalf("summary total volume = %q", summary[4])
	}
	if summary[5] != "120" || summary[6] != "0.09" || summary[7] != "80" || summary[8] != "1.015" || summary[9] != "6.2" {
		t.Fatalf("unexpected lab columns: %v", summary[5:10])
	}
	if summary[10] != "2" {
		t.Fatalf("summary urination count = %q", summary[10])
	}

	first := rows[1]
	if first[0] != "" || first[10] != "#1" || first[11] != "2026-03-10 09:00:00" || first[12] != "400" {
		t.Fatalf("unexpected first record row: %v", first)
	}
	second := rows[2]
	if second[10] != "#2" || second[12] != "350.5" {
		t.Fatalf("unexpected second record row: %v", second)
	}

	for i, cell := range rows[3] {
		if cell != "" {
			t.Fatalf("separator row column %d is not blank: %q", i, cell)
		}
	}
}

func TestBuildCSVRowsWithoutResult(t *testing.T) {
	store := newFakeRecordStore()
	cycles := NewCycleService(store, fakeUrinationStore{store: store}, false)

	if _, err := cycles.StartCycle(testClock); err != nil {
		t.Fatalf("start cycle: %v", err)
	}

	service := NewExportService(store)
	rows, err := service.BuildCSVRows()
	if err != nil {
		t.Fatalf("build rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected summary plus separator, got %d rows", len(rows))
	}

	summary := rows[0]
	if summary[2] != "not ended" {
		t.Fatalf("expected the open window to read %q, got %q", "not ended", summary[2])
	}
	if summary[3] != "Ongoing" {
		t.Fatalf("summary status = %q", summary[3])
	}
	for column := 5; column <= 9; column++ {
		if summary[column] != "" {
			t.Fatalf("expected blank lab column %d, got %q", column, summary[column])
		}
	}
}

func TestBuildExportFilename(t *testing.T) {
	name := BuildExportFilename(time.Date(2026, time.March, 10, 8, 30, 0, 0, time.UTC))
	if name != "renalog-export-2026-03-10_08-30-00.csv" {
		t.Fatalf("unexpected filename %q", name)
	}
}
