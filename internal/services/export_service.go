package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/terraincognita07/renalog/internal/models"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportCSVHeaders describes the spreadsheet projection: one summary row
// per cycle, one row per urination record with only the sequence, time
// and volume columns populated, then a blank separator row.
var ExportCSVHeaders = []string{
	"Cycle ID",
	"Start Time",
	"End Time",
	"Status",
	"Total Volume (ml)",
	"Protein (mg/L)",
	"24h Protein (g)",
	"Creatinine (umol/L)",
	"Specific Gravity",
	"pH",
	"Urinations",
	"Record Time",
	"Record Volume (ml)",
}

type ExportCycleReader interface {
	ListAll() ([]models.TestCycle, error)
}

type ExportService struct {
	cycles ExportCycleReader
}

func NewExportService(cycles ExportCycleReader) *ExportService {
	return &ExportService{cycles: cycles}
}

// BuildCSVRows renders the full history as spreadsheet rows. This is a
// read-only projection of the data model and is never parsed back in.
func (service *ExportService) BuildCSVRows() ([][]string, error) {
	cycles, err := service.cycles.ListAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(cycles)*3)
	for _, cycle := range cycles {
		rows = append(rows, cycleSummaryRow(cycle))
		for i, record := range cycle.UrinationRecords {
			rows = append(rows, urinationRecordRow(i+1, record))
		}
		rows = append(rows, blankExportRow())
	}
	return rows, nil
}

func cycleSummaryRow(cycle models.TestCycle) []string {
	endTime := "not ended"
	if cycle.EndTime != nil {
		endTime = cycle.EndTime.Format(exportTimeLayout)
	}

	protein := ""
	proteinTotal := ""
	creatinine := ""
	specificGravity := ""
	ph := ""
	if cycle.TestResult != nil {
		protein = formatExportNumber(cycle.TestResult.Protein)
		if cycle.TestResult.ProteinTotal24h != nil {
			proteinTotal = fmt.Sprintf("%.2f", *cycle.TestResult.ProteinTotal24h)
		}
		creatinine = formatExportNumber(cycle.TestResult.Creatinine)
		specificGravity = fmt.Sprintf("%.3f", cycle.TestResult.SpecificGravity)
		ph = formatExportNumber(cycle.TestResult.PH)
	}

	return []string{
		cycle.ID,
		cycle.StartTime.Format(exportTimeLayout),
		endTime,
		exportStatusLabel(cycle.Status),
		formatExportNumber(cycle.TotalVolume),
		protein,
		proteinTotal,
		creatinine,
		specificGravity,
		ph,
		strconv.Itoa(len(cycle.UrinationRecords)),
		"",
		"",
	}
}

func urinationRecordRow(sequence int, record models.UrinationRecord) []string {
	return []string{
		"", "", "", "", "", "", "", "", "", "",
		fmt.Sprintf("#%d", sequence),
		record.Time.Format(exportTimeLayout),
		formatExportNumber(record.Volume),
	}
}

func blankExportRow() []string {
	return make([]string, len(ExportCSVHeaders))
}

func exportStatusLabel(status string) string {
	switch status {
	case models.CycleStatusOngoing:
		return "Ongoing"
	case models.CycleStatusCompleted:
		return "Completed"
	case models.CycleStatusManual:
		return "Manual entry"
	default:
		return status
	}
}

func formatExportNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// BuildExportFilename embeds a timestamp, mirroring the backup naming.
func BuildExportFilename(now time.Time) string {
	return fmt.Sprintf("renalog-export-%s.csv", now.Format("2006-01-02_15-04-05"))
}
