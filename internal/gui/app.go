package gui

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/fmuoria/interview-coach/internal/agent"
	"github.com/fmuoria/interview-coach/internal/config"
	"github.com/fmuoria/interview-coach/internal/export"
	"github.com/fmuoria/interview-coach/internal/llm"
	"github.com/fmuoria/interview-coach/internal/models"
	"github.com/fmuoria/interview-coach/internal/results"
)

const (
	defaultConfidence = 50
	requestTimeout    = 2 * time.Minute
)

// App represents the main GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	config     *config.Config
	agent      *agent.InterviewAgent

	// Mock interview tab
	companyEntry    *widget.Entry
	positionEntry   *widget.Entry
	answerEntries   []*widget.Entry
	confidence      *widget.Slider
	confidenceLabel *widget.Label
	notesEntry      *widget.Entry
	submitBtn       *widget.Button
	coachBtn        *widget.Button
	statusLabel     *widget.Label
	resultText      *widget.Label

	// History tab
	filterSelect *widget.Select
	sortSelect   *widget.Select
	searchEntry  *widget.Entry
	historyTable *widget.Table
	exportBtn    *widget.Button

	lastRecord *models.InterviewRecord
	history    []models.InterviewRecord
}

// NewApp creates the desktop application around an interview agent
func NewApp(cfg *config.Config, interviewAgent *agent.InterviewAgent) *App {
	a := app.New()
	w := a.NewWindow("Interview Coach")
	w.Resize(fyne.NewSize(1000, 750))

	guiApp := &App{
		fyneApp:    a,
		mainWindow: w,
		config:     cfg,
		agent:      interviewAgent,
	}

	guiApp.setupUI()

	return guiApp
}

// Run starts the GUI application
func (a *App) Run() {
	a.refreshHistory()
	a.mainWindow.ShowAndRun()
}

// setupUI initializes all UI components
func (a *App) setupUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Mock Interview", a.createInterviewTab()),
		container.NewTabItem("History", a.createHistoryTab()),
		container.NewTabItem("Settings", a.createSettingsTab()),
	)
	tabs.OnSelected = func(tab *container.TabItem) {
		if tab.Text == "History" {
			a.refreshHistory()
		}
	}

	a.mainWindow.SetContent(tabs)
}

// createInterviewTab lays out one answer box per configured question
func (a *App) createInterviewTab() fyne.CanvasObject {
	a.companyEntry = widget.NewEntry()
	a.companyEntry.SetPlaceHolder(agent.DefaultCompany)

	a.positionEntry = widget.NewEntry()
	a.positionEntry.SetPlaceHolder(agent.DefaultPosition)

	detailsSection := container.NewVBox(
		widget.NewLabel("Interview Details"),
		widget.NewForm(
			widget.NewFormItem("Company", a.companyEntry),
			widget.NewFormItem("Position", a.positionEntry),
		),
	)

	questions := a.agent.Questions()
	a.answerEntries = make([]*widget.Entry, len(questions))
	questionsBox := container.NewVBox(widget.NewLabel("Questions"))
	for i, q := range questions {
		entry := widget.NewMultiLineEntry()
		entry.SetPlaceHolder("Type your answer here...")
		entry.SetMinRowsVisible(4)
		entry.Wrapping = fyne.TextWrapWord
		a.answerEntries[i] = entry

		label := widget.NewLabelWithStyle(fmt.Sprintf("%d. %s", i+1, q), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		label.Wrapping = fyne.TextWrapWord
		questionsBox.Add(label)
		questionsBox.Add(entry)
	}

	a.confidenceLabel = widget.NewLabel(fmt.Sprintf("Confidence: %d%%", defaultConfidence))
	a.confidence = widget.NewSlider(0, 100)
	a.confidence.Step = 1
	a.confidence.SetValue(defaultConfidence)
	a.confidence.OnChanged = func(v float64) {
		a.confidenceLabel.SetText(fmt.Sprintf("Confidence: %d%%", int(v)))
	}

	a.notesEntry = widget.NewMultiLineEntry()
	a.notesEntry.SetPlaceHolder("Anything you want to remember about this session")
	a.notesEntry.SetMinRowsVisible(2)

	a.submitBtn = widget.NewButton("Submit Interview", a.handleSubmit)
	a.coachBtn = widget.NewButton("Ask AI Coach", a.handleCoach)
	a.coachBtn.Disable()

	a.statusLabel = widget.NewLabel("Ready")
	a.resultText = widget.NewLabel("")
	a.resultText.Wrapping = fyne.TextWrapWord

	return container.NewVScroll(
		container.NewVBox(
			detailsSection,
			widget.NewSeparator(),
			questionsBox,
			widget.NewSeparator(),
			a.confidenceLabel,
			a.confidence,
			widget.NewLabel("Notes"),
			a.notesEntry,
			container.NewHBox(a.submitBtn, a.coachBtn),
			a.statusLabel,
			widget.NewSeparator(),
			a.resultText,
		),
	)
}

// createHistoryTab lists stored interviews with the results library filters
func (a *App) createHistoryTab() fyne.CanvasObject {
	a.filterSelect = widget.NewSelect(filterOptions(), func(string) { a.refreshHistory() })
	a.filterSelect.SetSelected(string(results.FilterAll))

	a.sortSelect = widget.NewSelect(sortOptions(), func(string) { a.refreshHistory() })
	a.sortSelect.SetSelected(string(results.SortNewest))

	a.searchEntry = widget.NewEntry()
	a.searchEntry.SetPlaceHolder("Search titles...")
	a.searchEntry.OnChanged = func(string) { a.refreshHistory() }

	headers := []string{"Date", "Title", "Position", "Score", "Status"}
	a.historyTable = widget.NewTable(
		func() (int, int) {
			return len(a.history) + 1, len(headers) // +1 for header
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.TableCellID, cell fyne.CanvasObject) {
			label := cell.(*widget.Label)
			if id.Row == 0 {
				label.SetText(headers[id.Col])
				label.TextStyle = fyne.TextStyle{Bold: true}
				return
			}
			label.TextStyle = fyne.TextStyle{}
			if id.Row-1 >= len(a.history) {
				label.SetText("")
				return
			}

			rec := a.history[id.Row-1]
			switch id.Col {
			case 0:
				label.SetText(rec.CreatedAt.Format("2006-01-02 15:04"))
			case 1:
				label.SetText(rec.Title)
			case 2:
				label.SetText(rec.Position)
			case 3:
				label.SetText(fmt.Sprintf("%d%%", rec.Score))
			case 4:
				label.SetText(rec.Status)
			}
		},
	)
	a.historyTable.SetColumnWidth(0, 140)
	a.historyTable.SetColumnWidth(1, 260)
	a.historyTable.SetColumnWidth(2, 200)
	a.historyTable.SetColumnWidth(3, 80)
	a.historyTable.SetColumnWidth(4, 100)
	a.historyTable.OnSelected = func(id widget.TableCellID) {
		if id.Row > 0 && id.Row-1 < len(a.history) {
			a.showRecord(a.history[id.Row-1])
		}
		a.historyTable.UnselectAll()
	}

	refreshBtn := widget.NewButton("Refresh", a.refreshHistory)
	a.exportBtn = widget.NewButton("Export to Excel", a.handleExportHistory)
	a.exportBtn.Disable()

	controls := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Filter", a.filterSelect),
			widget.NewFormItem("Sort", a.sortSelect),
			widget.NewFormItem("Search", a.searchEntry),
		),
		container.NewHBox(refreshBtn, a.exportBtn),
	)

	return container.NewBorder(controls, nil, nil, nil, a.historyTable)
}

// createSettingsTab creates the settings tab
func (a *App) createSettingsTab() fyne.CanvasObject {
	projectEntry := widget.NewEntry()
	projectEntry.SetText(a.config.GoogleCloudProject)

	locationEntry := widget.NewEntry()
	locationEntry.SetText(a.config.GoogleCloudLocation)

	modelEntry := widget.NewEntry()
	modelEntry.SetText(a.config.CoachModel)
	modelEntry.SetPlaceHolder(llm.DefaultModel)

	googleCredsEntry := widget.NewEntry()
	googleCredsEntry.SetText(a.config.GoogleCredentialsPath)

	backendSelect := widget.NewSelect([]string{"file", "sqlite", "memory"}, nil)
	backendSelect.SetSelected(a.config.ResultsBackend)

	resultsPathEntry := widget.NewEntry()
	resultsPathEntry.SetText(a.config.ResultsPath)

	questionBankEntry := widget.NewEntry()
	questionBankEntry.SetText(a.config.QuestionBankPath)
	questionBankEntry.SetPlaceHolder("Built-in questions")

	browse := func(target *widget.Entry) *widget.Button {
		return widget.NewButton("Browse...", func() {
			dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
				if err == nil && uc != nil {
					target.SetText(uc.URI().Path())
					uc.Close()
				}
			}, a.mainWindow)
		})
	}

	form := widget.NewForm(
		widget.NewFormItem("Google Cloud Project", projectEntry),
		widget.NewFormItem("Google Cloud Location", locationEntry),
		widget.NewFormItem("Coach Model", modelEntry),
		widget.NewFormItem("Google Credentials", container.NewBorder(nil, nil, nil, browse(googleCredsEntry), googleCredsEntry)),
		widget.NewFormItem("Results Backend", backendSelect),
		widget.NewFormItem("Results Path", resultsPathEntry),
		widget.NewFormItem("Question Bank", container.NewBorder(nil, nil, nil, browse(questionBankEntry), questionBankEntry)),
	)

	apply := func() {
		a.config.GoogleCloudProject = strings.TrimSpace(projectEntry.Text)
		a.config.GoogleCloudLocation = strings.TrimSpace(locationEntry.Text)
		a.config.CoachModel = strings.TrimSpace(modelEntry.Text)
		a.config.GoogleCredentialsPath = strings.TrimSpace(googleCredsEntry.Text)
		a.config.ResultsBackend = backendSelect.Selected
		a.config.ResultsPath = strings.TrimSpace(resultsPathEntry.Text)
		a.config.QuestionBankPath = strings.TrimSpace(questionBankEntry.Text)
	}

	saveBtn := widget.NewButton("Save Settings", func() {
		apply()
		if err := a.config.Validate(); err != nil {
			dialog.ShowError(fmt.Errorf("validation failed: %w", err), a.mainWindow)
			return
		}
		if err := a.config.Save(); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}

		a.config.ApplyToEnv()

		dialog.ShowInformation("Success", "Settings saved. Storage, question bank and coach changes apply after a restart.", a.mainWindow)
	})

	testBtn := widget.NewButton("Check Settings", func() {
		apply()
		if err := a.config.Validate(); err != nil {
			dialog.ShowError(fmt.Errorf("validation failed: %w", err), a.mainWindow)
			return
		}
		dialog.ShowInformation("Success", "Configuration is valid", a.mainWindow)
	})

	return container.NewVBox(
		form,
		container.NewHBox(saveBtn, testBtn),
	)
}

// handleSubmit scores the typed answers and stores the interview
func (a *App) handleSubmit() {
	answers := make([]string, len(a.answerEntries))
	for i, entry := range a.answerEntries {
		answers[i] = entry.Text
	}

	sub := models.Submission{
		Company:         a.companyEntry.Text,
		Position:        a.positionEntry.Text,
		Questions:       a.agent.Questions(),
		Answers:         answers,
		ConfidenceLevel: int(a.confidence.Value),
		Notes:           a.notesEntry.Text,
	}

	a.submitBtn.Disable()
	a.coachBtn.Disable()
	a.statusLabel.SetText("Evaluating your answers...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		record, err := a.agent.Submit(ctx, sub)

		fyne.Do(func() {
			a.submitBtn.Enable()

			if err != nil {
				a.statusLabel.SetText("Error: " + err.Error())
				dialog.ShowError(err, a.mainWindow)
				return
			}

			a.lastRecord = &record
			a.showRecord(record)
			if a.agent.HasCoach() {
				a.coachBtn.Enable()
			}
			a.statusLabel.SetText(fmt.Sprintf("Saved %s with an overall score of %d%%", record.Title, record.Score))

			fyne.CurrentApp().SendNotification(&fyne.Notification{
				Title:   "Interview Evaluated",
				Content: fmt.Sprintf("Overall score: %d%%", record.Score),
			})
		})
	}()
}

// handleCoach requests AI coaching for the last submitted interview
func (a *App) handleCoach() {
	if a.lastRecord == nil {
		return
	}
	id := a.lastRecord.ID

	a.coachBtn.Disable()
	a.statusLabel.SetText("Asking the AI coach...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := a.agent.Coach(ctx, id)
		var record models.InterviewRecord
		if err == nil {
			record, err = a.agent.Get(ctx, id)
		}

		fyne.Do(func() {
			a.coachBtn.Enable()

			if err != nil {
				log.Printf("Coaching failed for %s: %v", id, err)
				a.statusLabel.SetText("Error: " + err.Error())
				dialog.ShowError(err, a.mainWindow)
				return
			}

			a.lastRecord = &record
			a.showRecord(record)
			a.statusLabel.SetText("AI coaching added")
		})
	}()
}

// showRecord renders a stored interview in the results view
func (a *App) showRecord(record models.InterviewRecord) {
	a.resultText.SetText(formatRecord(record))
}

// refreshHistory reloads the history table using the current filter, sort and search
func (a *App) refreshHistory() {
	if a.historyTable == nil || a.exportBtn == nil {
		return
	}

	q := results.Query{
		Filter: results.Filter(a.filterSelect.Selected),
		Sort:   results.SortOrder(a.sortSelect.Selected),
		Search: a.searchEntry.Text,
	}

	records, err := a.agent.List(context.Background(), q)
	if err != nil {
		log.Printf("Failed to load history: %v", err)
		dialog.ShowError(err, a.mainWindow)
		return
	}

	a.history = records
	a.historyTable.Refresh()
	if len(records) > 0 {
		a.exportBtn.Enable()
	} else {
		a.exportBtn.Disable()
	}
}

// handleExportHistory writes the listed interviews to an Excel workbook
func (a *App) handleExportHistory() {
	if len(a.history) == 0 {
		dialog.ShowError(fmt.Errorf("no interviews to export"), a.mainWindow)
		return
	}
	records := append([]models.InterviewRecord(nil), a.history...)

	timestamp := time.Now().Format("2006-01-02_150405")
	defaultName := fmt.Sprintf("Interview_History_%s.xlsx", timestamp)

	save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return // User canceled
		}
		outputPath := uc.URI().Path()
		uc.Close()

		written, err := export.ExportHistory(records, outputPath)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to export: %w", err), a.mainWindow)
			return
		}

		dialog.ShowInformation("Success", "History exported successfully to "+filepath.Base(written), a.mainWindow)
	}, a.mainWindow)
	save.SetFileName(defaultName)
	save.Show()
}

// formatRecord renders a record as plain text for the results view
func formatRecord(record models.InterviewRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", record.Title, record.Position)
	fmt.Fprintf(&b, "Overall Score: %d%%    Confidence: %d%%\n", record.Score, record.Result.ConfidenceLevel)

	for _, c := range record.Comments {
		fmt.Fprintf(&b, "\n%s\n%s\n", c.Title, c.Text)
	}

	if len(record.QuestionsAndAnswers) > 0 {
		b.WriteString("\nQuestion Breakdown\n")
		for i, qa := range record.QuestionsAndAnswers {
			fmt.Fprintf(&b, "%d. %s [%d%%]\n   %s\n", i+1, qa.Question, qa.Score, qa.Feedback)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func filterOptions() []string {
	options := make([]string, len(results.Filters))
	for i, f := range results.Filters {
		options[i] = string(f)
	}
	return options
}

func sortOptions() []string {
	options := make([]string, len(results.SortOrders))
	for i, s := range results.SortOrders {
		options[i] = string(s)
	}
	return options
}
