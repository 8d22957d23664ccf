package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fmuoria/interview-coach/internal/ingestion"
	"github.com/fmuoria/interview-coach/internal/models"
	"github.com/fmuoria/interview-coach/internal/results"
	"github.com/fmuoria/interview-coach/internal/scoring"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Defaults applied when a submission leaves company or position empty
const (
	DefaultCompany  = "Mock Interview Practice"
	DefaultPosition = "General Interview"
	noAnswerText    = "No answer provided"
)

// Comment titles attached to every evaluated record
const (
	CommentStrengths    = "Strengths"
	CommentImprovements = "Areas for Improvement"
	CommentDetailed     = "Detailed Feedback"
	CommentCoach        = "AI Coach"
)

// ErrCoachUnavailable is returned by Coach when no AI coach is configured
var ErrCoachUnavailable = errors.New("AI coach is not configured")

// Reviewer produces coaching for a stored interview
type Reviewer interface {
	Review(ctx context.Context, record models.InterviewRecord) (models.CoachingReport, error)
}

// InterviewAgent runs mock interviews: it scores submissions, keeps the
// results library and attaches notes and coaching to stored records.
type InterviewAgent struct {
	FileHandler *ingestion.FileHandler
	store       results.Store
	coach       Reviewer
	validate    *validator.Validate
	questions   []string
	now         func() time.Time
	mu          sync.Mutex // serializes read-modify-write on stored records
}

// NewInterviewAgent creates an agent backed by store that asks the given questions
func NewInterviewAgent(store results.Store, fileHandler *ingestion.FileHandler, questions []string) *InterviewAgent {
	return &InterviewAgent{
		FileHandler: fileHandler,
		store:       store,
		validate:    validator.New(),
		questions:   append([]string(nil), questions...),
		now:         time.Now,
	}
}

// SetCoach enables AI coaching
func (a *InterviewAgent) SetCoach(coach Reviewer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.coach = coach
}

// HasCoach reports whether AI coaching is available
func (a *InterviewAgent) HasCoach() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.coach != nil
}

// SetClock replaces the time source used to stamp new records
func (a *InterviewAgent) SetClock(now func() time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
}

// Questions returns the configured question set
func (a *InterviewAgent) Questions() []string {
	return append([]string(nil), a.questions...)
}

// Evaluate scores an interview without storing it
func (a *InterviewAgent) Evaluate(req models.EvaluateRequest) (models.InterviewResult, error) {
	if err := a.validate.Struct(req); err != nil {
		return models.InterviewResult{}, fmt.Errorf("invalid evaluation request: %w", err)
	}
	return scoring.EvaluateInterview(req.Questions, req.Answers, req.ConfidenceLevel, req.Notes, a.clock())
}

// Submit evaluates a completed mock interview and stores it in the results library.
// An empty question list means the configured question set was asked.
func (a *InterviewAgent) Submit(ctx context.Context, sub models.Submission) (models.InterviewRecord, error) {
	if err := a.validate.Struct(sub); err != nil {
		return models.InterviewRecord{}, fmt.Errorf("invalid submission: %w", err)
	}

	if len(sub.Questions) == 0 {
		sub.Questions = a.Questions()
	}

	now := a.clock()
	result, err := scoring.EvaluateInterview(sub.Questions, sub.Answers, sub.ConfidenceLevel, sub.Notes, now)
	if err != nil {
		return models.InterviewRecord{}, err
	}

	record := buildRecord(sub, result, now)
	if err := a.store.Save(ctx, record); err != nil {
		return models.InterviewRecord{}, fmt.Errorf("failed to save interview: %w", err)
	}

	log.Printf("Stored interview %s (%s) with score %d", record.ID, record.Title, record.Score)
	return record, nil
}

// SubmitTranscript parses Q:/A: transcript text into questions and answers and submits them
func (a *InterviewAgent) SubmitTranscript(ctx context.Context, sub models.Submission, transcript string) (models.InterviewRecord, error) {
	questions, answers := ingestion.ParseTranscript(transcript)
	if len(questions) == 0 {
		return models.InterviewRecord{}, &scoring.ValidationError{
			Field:   "transcript",
			Message: "no questions found; prefix questions with Q: and answers with A:",
		}
	}

	sub.Questions = questions
	sub.Answers = answers
	return a.Submit(ctx, sub)
}

// SubmitDocument evaluates a transcript stored in the document library
func (a *InterviewAgent) SubmitDocument(ctx context.Context, sub models.Submission, name string) (models.InterviewRecord, error) {
	if a.FileHandler == nil {
		return models.InterviewRecord{}, fmt.Errorf("document library is not configured")
	}

	text, err := a.FileHandler.ReadDocument(name)
	if err != nil {
		return models.InterviewRecord{}, err
	}
	return a.SubmitTranscript(ctx, sub, text)
}

// Get returns a stored interview
func (a *InterviewAgent) Get(ctx context.Context, id uuid.UUID) (models.InterviewRecord, error) {
	return a.store.Get(ctx, id)
}

// List returns stored interviews matching q
func (a *InterviewAgent) List(ctx context.Context, q results.Query) ([]models.InterviewRecord, error) {
	records, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return results.Apply(records, q), nil
}

// Delete removes a stored interview
func (a *InterviewAgent) Delete(ctx context.Context, id uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Delete(ctx, id)
}

// AddNote appends a comment to a stored interview. The evaluation itself is unchanged.
func (a *InterviewAgent) AddNote(ctx context.Context, id uuid.UUID, title, text string) (models.InterviewRecord, error) {
	comment := models.Comment{Title: strings.TrimSpace(title), Text: strings.TrimSpace(text)}
	if err := a.validate.Struct(comment); err != nil {
		return models.InterviewRecord{}, fmt.Errorf("invalid note: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.appendComment(ctx, id, comment)
}

// Coach asks the AI coach to review a stored interview and attaches the review as a comment
func (a *InterviewAgent) Coach(ctx context.Context, id uuid.UUID) (models.CoachingReport, error) {
	a.mu.Lock()
	coach := a.coach
	a.mu.Unlock()

	if coach == nil {
		return models.CoachingReport{}, ErrCoachUnavailable
	}

	record, err := a.store.Get(ctx, id)
	if err != nil {
		return models.CoachingReport{}, err
	}

	log.Printf("Requesting AI coaching for interview %s", id)
	report, err := coach.Review(ctx, record)
	if err != nil {
		return models.CoachingReport{}, fmt.Errorf("failed to get coaching: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.appendComment(ctx, id, models.Comment{Title: CommentCoach, Text: formatCoaching(report)}); err != nil {
		return models.CoachingReport{}, err
	}

	return report, nil
}

// Close releases the results store
func (a *InterviewAgent) Close() error {
	return a.store.Close()
}

func (a *InterviewAgent) clock() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.now()
}

// appendComment must be called with a.mu held
func (a *InterviewAgent) appendComment(ctx context.Context, id uuid.UUID, comment models.Comment) (models.InterviewRecord, error) {
	record, err := a.store.Get(ctx, id)
	if err != nil {
		return models.InterviewRecord{}, err
	}

	record.Comments = append(record.Comments, comment)
	if err := a.store.Save(ctx, record); err != nil {
		return models.InterviewRecord{}, fmt.Errorf("failed to save interview: %w", err)
	}

	return record, nil
}

func buildRecord(sub models.Submission, result models.InterviewResult, now time.Time) models.InterviewRecord {
	company := strings.TrimSpace(sub.Company)
	if company == "" {
		company = DefaultCompany
	}
	position := strings.TrimSpace(sub.Position)
	if position == "" {
		position = DefaultPosition
	}

	qa := make([]models.QAPair, len(sub.Questions))
	for i, q := range sub.Questions {
		answer := sub.Answers[i]
		if strings.TrimSpace(answer) == "" {
			answer = noAnswerText
		}
		qa[i] = models.QAPair{
			Question: q,
			Answer:   answer,
			Feedback: result.DetailedFeedback[i].Feedback,
			Score:    result.DetailedFeedback[i].Score,
		}
	}

	return models.InterviewRecord{
		ID:                  uuid.New(),
		Type:                models.RecordTypeInterview,
		Title:               company + " Interview",
		Company:             company,
		Position:            position,
		Score:               result.OverallScore,
		Status:              models.StatusCompleted,
		CreatedAt:           now,
		QuestionsAndAnswers: qa,
		Comments:            buildComments(result),
		Result:              result,
	}
}

func buildComments(result models.InterviewResult) []models.Comment {
	var comments []models.Comment

	if len(result.Strengths) > 0 {
		comments = append(comments, models.Comment{Title: CommentStrengths, Text: bullets(result.Strengths)})
	}
	if len(result.AreasForImprovement) > 0 {
		comments = append(comments, models.Comment{Title: CommentImprovements, Text: bullets(result.AreasForImprovement)})
	}

	// Consolidate per-question feedback into unique messages
	seen := make(map[string]bool)
	var messages []string
	for _, fb := range result.DetailedFeedback {
		if !seen[fb.Feedback] {
			seen[fb.Feedback] = true
			messages = append(messages, fb.Feedback)
		}
	}
	if len(messages) > 0 {
		sort.Strings(messages)
		comments = append(comments, models.Comment{Title: CommentDetailed, Text: bullets(messages)})
	}

	return comments
}

func formatCoaching(report models.CoachingReport) string {
	text := strings.TrimSpace(report.Summary)
	if len(report.Tips) > 0 {
		if text != "" {
			text += "\n"
		}
		text += bullets(report.Tips)
	}
	return text
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
