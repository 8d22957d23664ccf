package models

import (
	"time"

	"github.com/google/uuid"
)

// Record types stored in the results library
const (
	RecordTypeInterview = "interview"
	RecordTypeResume    = "resume"
)

// StatusCompleted marks a record whose evaluation has finished
const StatusCompleted = "Completed"

// AnswerAnalysis holds the metrics derived from a single answer
type AnswerAnalysis struct {
	WordCount     int     `json:"word_count"`
	SentenceCount int     `json:"sentence_count"`
	HasExamples   bool    `json:"has_examples"`
	WordDiversity float64 `json:"word_diversity"`  // 0-1
	AvgWordLength float64 `json:"avg_word_length"` // characters per token
	Score         int     `json:"score"`           // 0-100
}

// QuestionFeedback is the per-question part of an interview result
type QuestionFeedback struct {
	Question string `json:"question"`
	Feedback string `json:"feedback"`
	Score    int    `json:"score"`
}

// InterviewResult is the outcome of one interview submission.
// It is built once and never modified afterwards.
type InterviewResult struct {
	OverallScore        int                `json:"overall_score"`
	Strengths           []string           `json:"strengths"`
	AreasForImprovement []string           `json:"areas_for_improvement"`
	DetailedFeedback    []QuestionFeedback `json:"detailed_feedback"`
	ConfidenceLevel     int                `json:"confidence_level"`
	Timestamp           time.Time          `json:"timestamp"`
	Notes               string             `json:"notes,omitempty"`
}

// QAPair is a question with the candidate's answer and its evaluation
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
	Score    int    `json:"score"`
}

// Comment is a titled block of feedback attached to a record
type Comment struct {
	Title string `json:"title" validate:"required,max=200"`
	Text  string `json:"text" validate:"required"`
}

// InterviewRecord is what the results library stores for each submission
type InterviewRecord struct {
	ID                  uuid.UUID       `json:"id"`
	Type                string          `json:"type"`
	Title               string          `json:"title"`
	Company             string          `json:"company"`
	Position            string          `json:"position"`
	Score               int             `json:"score"`
	Status              string          `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	QuestionsAndAnswers []QAPair        `json:"questions_and_answers"`
	Comments            []Comment       `json:"comments"`
	Result              InterviewResult `json:"result"`
}

// Submission is the payload for submitting a completed mock interview
type Submission struct {
	Company         string   `json:"company" validate:"max=200"`
	Position        string   `json:"position" validate:"max=200"`
	Questions       []string `json:"questions" validate:"dive,required"`
	Answers         []string `json:"answers"`
	ConfidenceLevel int      `json:"confidence_level" validate:"min=0,max=100"`
	Notes           string   `json:"notes"`
}

// EvaluateRequest is the payload for a stateless evaluation
type EvaluateRequest struct {
	Questions       []string `json:"questions" validate:"dive,required"`
	Answers         []string `json:"answers"`
	ConfidenceLevel int      `json:"confidence_level" validate:"min=0,max=100"`
	Notes           string   `json:"notes"`
}

// Document kinds recognised by the document library
const (
	DocumentKindResume      = "resume"
	DocumentKindCoverLetter = "cover_letter"
	DocumentKindTranscript  = "transcript"
	DocumentKindOther       = "other"
)

// Document describes a file in the document library
type Document struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Kind       string    `json:"kind"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// CoachingReport is the AI coach's review of an interview
type CoachingReport struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
}
