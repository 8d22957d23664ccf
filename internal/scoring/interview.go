package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/fmuoria/interview-coach/internal/models"
)

// Summary clauses for the interview-level result
const (
	strengthCompleted   = "Completed all questions"
	strengthVocabulary  = "Varied and articulate vocabulary"
	strengthExamples    = "Good use of specific examples"
	strengthStrongScore = "Strong overall answer quality"
	strengthSolidScore  = "Solid overall answer quality"
	strengthConfidence  = "High confidence level"
	strengthDefault     = "Keep practicing - every mock interview builds your skills"

	improveAnswerAllFmt = "Answer all questions (%d/%d answered)"
	improveVocabulary   = "Use more varied vocabulary and avoid repeating the same words"
	improveExamples     = "Support your answers with specific examples using the STAR method (Situation, Task, Action, Result)"
	improveDetail       = "Provide more detailed, structured answers (aim for 30+ words with examples)"
	improveConfidence   = "Work on building confidence"
	improveDefault      = "Keep refining your answers with more specific detail"
)

// ScoreInterview analyzes every answer and returns the truncated mean score,
// the per-question scores and the per-question analyses.
func ScoreInterview(questions, answers []string) (int, []int, []models.AnswerAnalysis, error) {
	if len(questions) != len(answers) {
		return 0, nil, nil, &ValidationError{
			Field:   "answers",
			Message: fmt.Sprintf("got %d answers for %d questions", len(answers), len(questions)),
		}
	}

	scores := make([]int, len(questions))
	analyses := make([]models.AnswerAnalysis, len(questions))
	total := 0
	for i := range questions {
		analyses[i] = Analyze(answers[i], questions[i])
		scores[i] = analyses[i].Score
		total += scores[i]
	}

	if len(scores) == 0 {
		return 0, scores, analyses, nil
	}

	return total / len(scores), scores, analyses, nil
}

// SynthesizeSummary derives strengths, areas for improvement and per-question feedback.
// The inputs must be parallel slices as produced by ScoreInterview.
func SynthesizeSummary(questions, answers []string, analyses []models.AnswerAnalysis, overallScore, confidenceLevel int) models.InterviewResult {
	var strengths, improvements []string

	total := len(questions)
	answered := 0
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			answered++
		}
	}

	if total > 0 {
		if answered == total {
			strengths = append(strengths, strengthCompleted)
		} else {
			improvements = append(improvements, fmt.Sprintf(improveAnswerAllFmt, answered, total))
		}
	}

	if len(analyses) > 0 {
		diversitySum := 0.0
		for _, a := range analyses {
			diversitySum += a.WordDiversity
		}
		meanDiversity := diversitySum / float64(len(analyses))

		if meanDiversity > 0.7 {
			strengths = append(strengths, strengthVocabulary)
		} else if meanDiversity < 0.4 {
			improvements = append(improvements, improveVocabulary)
		}
	}

	withExamples := 0
	for _, a := range analyses {
		if a.HasExamples {
			withExamples++
		}
	}
	switch {
	case withExamples >= 2:
		strengths = append(strengths, strengthExamples)
	case withExamples == 0:
		improvements = append(improvements, improveExamples)
	}

	switch {
	case overallScore >= 80:
		strengths = append(strengths, strengthStrongScore)
	case overallScore >= 60:
		strengths = append(strengths, strengthSolidScore)
	case overallScore < 40:
		improvements = append(improvements, improveDetail)
	}

	if confidenceLevel >= 70 {
		strengths = append(strengths, strengthConfidence)
	} else if confidenceLevel < 50 {
		improvements = append(improvements, improveConfidence)
	}

	if len(strengths) == 0 {
		strengths = []string{strengthDefault}
	}
	if len(improvements) == 0 {
		improvements = []string{improveDefault}
	}

	detailed := make([]models.QuestionFeedback, len(questions))
	for i, q := range questions {
		detailed[i] = models.QuestionFeedback{
			Question: q,
			Feedback: GenerateFeedback(answers[i], q, analyses[i]),
			Score:    analyses[i].Score,
		}
	}

	return models.InterviewResult{
		OverallScore:        overallScore,
		Strengths:           strengths,
		AreasForImprovement: improvements,
		DetailedFeedback:    detailed,
		ConfidenceLevel:     confidenceLevel,
	}
}

// EvaluateInterview scores a full interview and builds its result, stamped with now.
// Confidence is clamped to [0,100]; notes are carried through untouched.
func EvaluateInterview(questions, answers []string, confidenceLevel int, notes string, now time.Time) (models.InterviewResult, error) {
	overall, _, analyses, err := ScoreInterview(questions, answers)
	if err != nil {
		return models.InterviewResult{}, err
	}

	confidenceLevel = clamp(confidenceLevel, 0, 100)

	result := SynthesizeSummary(questions, answers, analyses, overall, confidenceLevel)
	result.Timestamp = now
	result.Notes = notes

	return result, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
