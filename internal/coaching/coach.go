// Package coaching asks a hosted LLM for interview coaching on top of the heuristic scores.
package coaching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fmuoria/interview-coach/internal/models"
)

const (
	// maxRetries is the number of extra attempts made after a rate-limited call
	maxRetries = 3
	// retryBackoff is the wait before the first retry; it doubles on each attempt
	retryBackoff = 10 * time.Second
	// maxAnswerChars caps how much of each answer is sent to the model
	maxAnswerChars = 2000
)

// Generator produces text for a prompt
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Coach reviews interviews using an LLM
type Coach struct {
	generator Generator
	backoff   time.Duration
}

// NewCoach creates a new coach backed by the given generator
func NewCoach(generator Generator) *Coach {
	return &Coach{
		generator: generator,
		backoff:   retryBackoff,
	}
}

// Review asks the model for a summary and concrete tips for one interview
func (c *Coach) Review(ctx context.Context, record models.InterviewRecord) (models.CoachingReport, error) {
	prompt := buildCoachingPrompt(record)

	response, err := c.generateWithRetry(ctx, prompt)
	if err != nil {
		return models.CoachingReport{}, fmt.Errorf("failed to get LLM response: %w", err)
	}

	report, err := parseReport(response)
	if err != nil {
		return models.CoachingReport{}, fmt.Errorf("failed to parse coaching report: %w", err)
	}

	return report, nil
}

// generateWithRetry retries rate-limited calls with exponential backoff
func (c *Coach) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	wait := c.backoff
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("Rate limited by LLM, retrying in %v (attempt %d/%d)", wait, attempt, maxRetries)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}

		response, err := c.generator.GenerateContent(ctx, prompt)
		if err == nil {
			return response, nil
		}
		if !isRateLimitError(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("giving up after %d retries: %w", maxRetries, lastErr)
}

// isRateLimitError reports whether err looks like a quota or rate limit rejection
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "resourceexhausted") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota")
}

// buildCoachingPrompt creates the prompt for the LLM
func buildCoachingPrompt(record models.InterviewRecord) string {
	var sb strings.Builder

	sb.WriteString("You are an experienced interview coach reviewing a candidate's mock interview. ")
	sb.WriteString("An automatic checker has already scored each answer for length, structure, use of examples and vocabulary.\n\n")

	sb.WriteString("## INTERVIEW\n")
	sb.WriteString(fmt.Sprintf("Company: %s\n", sanitizeUTF8(record.Company)))
	sb.WriteString(fmt.Sprintf("Position: %s\n", sanitizeUTF8(record.Position)))
	sb.WriteString(fmt.Sprintf("Overall score: %d/100\n", record.Score))
	sb.WriteString(fmt.Sprintf("Self-reported confidence: %d/100\n\n", record.Result.ConfidenceLevel))

	for i, qa := range record.QuestionsAndAnswers {
		sb.WriteString(fmt.Sprintf("### Question %d\n", i+1))
		sb.WriteString(sanitizeUTF8(qa.Question))
		sb.WriteString("\nAnswer: ")
		sb.WriteString(sanitizeUTF8(truncate(qa.Answer, maxAnswerChars)))
		sb.WriteString(fmt.Sprintf("\nScore: %d/100\n", qa.Score))
		sb.WriteString(fmt.Sprintf("Checker feedback: %s\n\n", qa.Feedback))
	}

	if len(record.Result.Strengths) > 0 {
		sb.WriteString("## STRENGTHS FOUND BY THE CHECKER\n")
		for _, s := range record.Result.Strengths {
			sb.WriteString(fmt.Sprintf("- %s\n", s))
		}
		sb.WriteString("\n")
	}
	if len(record.Result.AreasForImprovement) > 0 {
		sb.WriteString("## AREAS FOR IMPROVEMENT FOUND BY THE CHECKER\n")
		for _, a := range record.Result.AreasForImprovement {
			sb.WriteString(fmt.Sprintf("- %s\n", a))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## INSTRUCTIONS\n")
	sb.WriteString("Look at the content of the answers, which the checker cannot judge. ")
	sb.WriteString("Point out missing results, vague claims and answers that do not address the question.\n\n")
	sb.WriteString("Provide your review in the following JSON format:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "summary": "<two or three sentences on how the interview went>",` + "\n")
	sb.WriteString(`  "tips": ["<concrete, actionable tip>", "..."]` + "\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Give between three and six tips. Return ONLY the JSON object, no additional text.\n")

	return sb.String()
}

// parseReport extracts the coaching report from the LLM response
func parseReport(response string) (models.CoachingReport, error) {
	// The model sometimes wraps the JSON in prose or code fences
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return models.CoachingReport{}, fmt.Errorf("no JSON found in response")
	}

	var report models.CoachingReport
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &report); err != nil {
		return models.CoachingReport{}, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	if strings.TrimSpace(report.Summary) == "" && len(report.Tips) == 0 {
		return models.CoachingReport{}, fmt.Errorf("coaching report is empty")
	}

	return report, nil
}

// sanitizeUTF8 replaces invalid UTF-8 sequences so the prompt is always valid text
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// truncate shortens s to maxLen bytes, adding an ellipsis when cut
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
