package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fmuoria/interview-coach/internal/models"
	"github.com/fmuoria/interview-coach/internal/results"
	"github.com/xuri/excelize/v2"
)

// Sheet names used in generated workbooks
const (
	SummarySheet   = "Summary"
	BreakdownSheet = "Question Breakdown"
	HistorySheet   = "Interview History"
	StatsSheet     = "Statistics"
)

const (
	headerColor = "4472C4"
	dateLayout  = "2006-01-02 15:04"
)

var cellBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// ExportInterview writes a single interview report and returns the path written
func ExportInterview(record models.InterviewRecord, outputPath string) (string, error) {
	f, err := buildInterviewWorkbook(record)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return saveWorkbook(f, outputPath)
}

// WriteInterview streams a single interview report to w
func WriteInterview(record models.InterviewRecord, w io.Writer) error {
	f, err := buildInterviewWorkbook(record)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel report: %w", err)
	}
	return nil
}

// ExportHistory writes one row per stored record plus score statistics and returns the path written
func ExportHistory(records []models.InterviewRecord, outputPath string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", HistorySheet)
	f.NewSheet(StatsSheet)

	if err := createHistorySheet(f, HistorySheet, records); err != nil {
		return "", fmt.Errorf("failed to create history sheet: %w", err)
	}

	if err := createStatsSheet(f, StatsSheet, records); err != nil {
		return "", fmt.Errorf("failed to create statistics sheet: %w", err)
	}

	return saveWorkbook(f, outputPath)
}

func buildInterviewWorkbook(record models.InterviewRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", SummarySheet)
	f.NewSheet(BreakdownSheet)

	if err := createSummarySheet(f, SummarySheet, record); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := createBreakdownSheet(f, BreakdownSheet, record); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create question breakdown sheet: %w", err)
	}

	return f, nil
}

// saveWorkbook enforces the .xlsx suffix and falls back to a buffered write if SaveAs fails
func saveWorkbook(f *excelize.File, outputPath string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	// Clean the path for cross-platform compatibility (Windows paths)
	outputPath = filepath.Clean(outputPath)

	if err := f.SaveAs(outputPath); err != nil {
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return "", fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}

		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return "", fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}

	return outputPath, nil
}

func newHeaderStyle(f *excelize.File, size float64, horizontal string) (int, error) {
	font := &excelize.Font{Bold: true, Color: "FFFFFF"}
	if size > 0 {
		font.Size = size
	}
	return f.NewStyle(&excelize.Style{
		Font:      font,
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: horizontal, Vertical: "center"},
		Border:    cellBorder,
	})
}

// bandStyles creates one bordered fill style per score band, keyed by band name
func bandStyles(f *excelize.File, wrap bool) (map[string]int, error) {
	styles := make(map[string]int)
	for _, band := range []results.Band{results.BandExcellent, results.BandGood, results.BandFair, results.BandPoor} {
		style, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{band.Color}, Pattern: 1},
			Alignment: &excelize.Alignment{WrapText: wrap, Vertical: "top"},
			Border:    cellBorder,
		})
		if err != nil {
			return nil, err
		}
		styles[band.Name] = style
	}
	return styles, nil
}

func freezeHeader(f *excelize.File, sheetName string) {
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// createSummarySheet lays out the interview details, overall score and written feedback
func createSummarySheet(f *excelize.File, sheetName string, record models.InterviewRecord) error {
	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "B", 80)

	headerStyle, err := newHeaderStyle(f, 14, "left")
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	bands, err := bandStyles(f, false)
	if err != nil {
		return err
	}

	row := 1
	section := func(title string) {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), title)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
		f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
		row++
	}
	field := func(label string, value interface{}) {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), label)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), value)
		row++
	}

	section(record.Title)
	row++

	field("Company:", record.Company)
	field("Position:", record.Position)
	field("Date:", record.CreatedAt.Format(dateLayout))
	field("Status:", record.Status)

	scoreRow := row
	field("Overall Score:", record.Score)
	f.SetCellStyle(sheetName, fmt.Sprintf("B%d", scoreRow), fmt.Sprintf("B%d", scoreRow), bands[results.ScoreBand(record.Score).Name])

	field("Confidence Level:", record.Result.ConfidenceLevel)
	field("Questions:", len(record.QuestionsAndAnswers))
	if record.Result.Notes != "" {
		field("Notes:", record.Result.Notes)
		f.SetCellStyle(sheetName, fmt.Sprintf("B%d", row-1), fmt.Sprintf("B%d", row-1), wrapStyle)
	}
	row++

	section("Strengths")
	for _, s := range record.Result.Strengths {
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), "• "+s)
		row++
	}
	row++

	section("Areas for Improvement")
	for _, s := range record.Result.AreasForImprovement {
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), "• "+s)
		row++
	}

	if len(record.Comments) > 0 {
		row++
		section("Comments")
		for _, c := range record.Comments {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), c.Title)
			f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), c.Text)
			f.SetCellStyle(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), wrapStyle)
			row++
		}
	}

	return nil
}

// createBreakdownSheet lists every question with the answer, its score and feedback
func createBreakdownSheet(f *excelize.File, sheetName string, record models.InterviewRecord) error {
	f.SetColWidth(sheetName, "A", "A", 6)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "C", 60)
	f.SetColWidth(sheetName, "D", "D", 10)
	f.SetColWidth(sheetName, "E", "E", 60)

	headerStyle, err := newHeaderStyle(f, 0, "center")
	if err != nil {
		return err
	}

	bands, err := bandStyles(f, true)
	if err != nil {
		return err
	}

	headers := []string{"#", "Question", "Answer", "Score", "Feedback"}
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, qa := range record.QuestionsAndAnswers {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), qa.Question)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), qa.Answer)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), qa.Score)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), qa.Feedback)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), bands[results.ScoreBand(qa.Score).Name])
		f.SetRowHeight(sheetName, row, 60)
	}

	freezeHeader(f, sheetName)
	return nil
}

// createHistorySheet writes one colour-coded row per record
func createHistorySheet(f *excelize.File, sheetName string, records []models.InterviewRecord) error {
	f.SetColWidth(sheetName, "A", "A", 18)
	f.SetColWidth(sheetName, "B", "B", 35)
	f.SetColWidth(sheetName, "C", "D", 25)
	f.SetColWidth(sheetName, "E", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 10)
	f.SetColWidth(sheetName, "G", "G", 14)
	f.SetColWidth(sheetName, "H", "H", 38)

	headerStyle, err := newHeaderStyle(f, 0, "center")
	if err != nil {
		return err
	}

	bands, err := bandStyles(f, false)
	if err != nil {
		return err
	}

	headers := []string{"Date", "Title", "Company", "Position", "Type", "Score", "Status", "ID"}
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, rec := range records {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), rec.CreatedAt.Format(dateLayout))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), rec.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), rec.Company)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), rec.Position)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), rec.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), rec.Score)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), rec.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), rec.ID.String())
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), bands[results.ScoreBand(rec.Score).Name])
	}

	if len(records) > 0 {
		f.AutoFilter(sheetName, fmt.Sprintf("A1:H%d", len(records)+1), []excelize.AutoFilterOptions{})
	}

	freezeHeader(f, sheetName)
	return nil
}

// createStatsSheet summarises the score distribution across records
func createStatsSheet(f *excelize.File, sheetName string, records []models.InterviewRecord) error {
	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 20)

	headerStyle, err := newHeaderStyle(f, 14, "left")
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	row := 1
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Interview Practice Report")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	stat := func(label string, value interface{}) {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), label)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), value)
		row++
	}

	stat("Generated:", time.Now().Format("2006-01-02 15:04:05"))
	stat("Total Records:", len(records))
	if len(records) == 0 {
		return nil
	}

	total, highest, lowest := 0, records[0].Score, records[0].Score
	counts := make(map[string]int)
	for _, rec := range records {
		total += rec.Score
		highest = max(highest, rec.Score)
		lowest = min(lowest, rec.Score)
		counts[results.ScoreBand(rec.Score).Name]++
	}

	stat("Average Score:", fmt.Sprintf("%.2f", float64(total)/float64(len(records))))
	stat("Highest Score:", highest)
	stat("Lowest Score:", lowest)
	row++

	stat("Excellent (80-100):", counts[results.BandExcellent.Name])
	stat("Good (60-79):", counts[results.BandGood.Name])
	stat("Fair (40-59):", counts[results.BandFair.Name])
	stat("Needs Work (<40):", counts[results.BandPoor.Name])

	return nil
}
