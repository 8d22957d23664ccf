package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fmuoria/interview-coach/internal/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

func sampleRecord(score int) models.InterviewRecord {
	created := time.Date(2025, 4, 2, 15, 30, 0, 0, time.UTC)
	return models.InterviewRecord{
		ID:        uuid.New(),
		Type:      models.RecordTypeInterview,
		Title:     "Acme Interview",
		Company:   "Acme",
		Position:  "Backend Engineer",
		Score:     score,
		Status:    models.StatusCompleted,
		CreatedAt: created,
		QuestionsAndAnswers: []models.QAPair{
			{Question: "Tell me about yourself", Answer: "I build APIs.", Feedback: "Too brief.", Score: score},
			{Question: "Why Acme?", Answer: "No answer provided", Feedback: "No answer provided. Make sure to answer all questions.", Score: 0},
		},
		Comments: []models.Comment{{Title: "Strengths", Text: "• Solid overall answer quality"}},
		Result: models.InterviewResult{
			OverallScore:        score,
			Strengths:           []string{"Solid overall answer quality"},
			AreasForImprovement: []string{"Answer all questions (1/2 answered)"},
			ConfidenceLevel:     65,
			Timestamp:           created,
			Notes:               "felt rushed",
		},
	}
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellValue(%s, %s) failed: %v", sheet, cell, err)
	}
	return v
}

// TestExportInterview_EnsuresXlsxExtension tests that .xlsx extension is added if missing
func TestExportInterview_EnsuresXlsxExtension(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "acme_report")

	written, err := ExportInterview(sampleRecord(72), outputPath)
	if err != nil {
		t.Fatalf("ExportInterview() failed: %v", err)
	}

	expectedPath := outputPath + ".xlsx"
	if written != expectedPath {
		t.Errorf("ExportInterview() wrote %s, want %s", written, expectedPath)
	}
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Errorf("Expected file at %s but it doesn't exist", expectedPath)
	}
}

// TestExportInterview_HandlesExistingXlsxExtension tests that existing .xlsx extension is preserved
func TestExportInterview_HandlesExistingXlsxExtension(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "acme_report.XLSX")

	written, err := ExportInterview(sampleRecord(72), outputPath)
	if err != nil {
		t.Fatalf("ExportInterview() failed: %v", err)
	}

	if strings.HasSuffix(strings.ToLower(written), ".xlsx.xlsx") {
		t.Error("Should not have double .xlsx extension")
	}
	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Errorf("Expected file at %s but it doesn't exist", outputPath)
	}
}

// TestExportInterview_CleansPaths tests that paths are cleaned for cross-platform compatibility
func TestExportInterview_CleansPaths(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "reports"), 0755); err != nil {
		t.Fatalf("Failed to create reports directory: %v", err)
	}

	written, err := ExportInterview(sampleRecord(50), tmpDir+"/reports//./acme.xlsx")
	if err != nil {
		t.Fatalf("ExportInterview() failed: %v", err)
	}

	expectedPath := filepath.Join(tmpDir, "reports", "acme.xlsx")
	if written != expectedPath {
		t.Errorf("ExportInterview() wrote %s, want %s", written, expectedPath)
	}
}

func TestExportInterview_Contents(t *testing.T) {
	record := sampleRecord(72)

	written, err := ExportInterview(record, filepath.Join(t.TempDir(), "acme.xlsx"))
	if err != nil {
		t.Fatalf("ExportInterview() failed: %v", err)
	}

	f, err := excelize.OpenFile(written)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SummarySheet || sheets[1] != BreakdownSheet {
		t.Fatalf("Unexpected sheets %v", sheets)
	}

	checks := map[string]string{
		"A1": "Acme Interview",
		"B3": "Acme",
		"B4": "Backend Engineer",
		"B5": "2025-04-02 15:30",
		"B7": "72",
		"B8": "65",
	}
	for cell, want := range checks {
		if got := cellValue(t, f, SummarySheet, cell); got != want {
			t.Errorf("%s!%s = %q, want %q", SummarySheet, cell, got, want)
		}
	}

	if got := cellValue(t, f, BreakdownSheet, "B1"); got != "Question" {
		t.Errorf("Breakdown header B1 = %q", got)
	}
	if got := cellValue(t, f, BreakdownSheet, "B3"); got != "Why Acme?" {
		t.Errorf("Breakdown B3 = %q", got)
	}
	if got := cellValue(t, f, BreakdownSheet, "D2"); got != "72" {
		t.Errorf("Breakdown D2 = %q", got)
	}
}

func TestWriteInterview(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInterview(sampleRecord(90), &buf); err != nil {
		t.Fatalf("WriteInterview() failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Failed to read workbook: %v", err)
	}
	defer f.Close()

	if got := cellValue(t, f, SummarySheet, "B7"); got != "90" {
		t.Errorf("Overall score = %q, want 90", got)
	}
}

func TestExportHistory(t *testing.T) {
	records := []models.InterviewRecord{sampleRecord(92), sampleRecord(35)}
	records[1].Title = "Globex Interview"

	written, err := ExportHistory(records, filepath.Join(t.TempDir(), "history"))
	if err != nil {
		t.Fatalf("ExportHistory() failed: %v", err)
	}

	f, err := excelize.OpenFile(written)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(HistorySheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][1] != "Acme Interview" || rows[2][1] != "Globex Interview" {
		t.Errorf("Unexpected titles %q, %q", rows[1][1], rows[2][1])
	}
	if rows[2][5] != "35" {
		t.Errorf("Score cell = %q, want 35", rows[2][5])
	}

	if got := cellValue(t, f, StatsSheet, "B4"); got != "2" {
		t.Errorf("Total Records = %q, want 2", got)
	}
	if got := cellValue(t, f, StatsSheet, "B5"); got != "63.50" {
		t.Errorf("Average Score = %q, want 63.50", got)
	}
}

// TestExportHistory_EmptyResults tests export with no stored records
func TestExportHistory_EmptyResults(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty_report.xlsx")

	if _, err := ExportHistory([]models.InterviewRecord{}, outputPath); err != nil {
		t.Fatalf("ExportHistory() should handle empty results: %v", err)
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Errorf("Expected file at %s but it doesn't exist", outputPath)
	}
}
