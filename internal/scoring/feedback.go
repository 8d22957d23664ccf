package scoring

import (
	"strings"

	"github.com/fmuoria/interview-coach/internal/models"
)

// Feedback clauses. The order in which GenerateFeedback appends them is part of its output contract.
const (
	feedbackNoAnswer = "No answer provided. Make sure to answer all questions."

	feedbackExcellent = "Excellent response with strong detail and structure."
	feedbackGood      = "Good response overall."
	feedbackFair      = "Decent start, but the answer needs more depth."
	feedbackPoor      = "This answer needs significant improvement."

	feedbackTooBrief    = "The answer is too brief; aim for at least 30 words."
	feedbackExpand      = "Expand with more detail; strong answers usually run 50 words or more."
	feedbackUnclear     = "The answer looks repetitive or unclear; use complete sentences with varied wording."
	feedbackStructure   = "Organize your answer into several clear sentences."
	feedbackUsedExample = "Good use of concrete examples."
	feedbackStructured  = "Well-structured answer."
	feedbackVocabulary  = "Strong, varied vocabulary."

	exampleTipYourself  = "Mention a specific project or accomplishment that shows who you are."
	exampleTipStrengths = "Back up each strength with a concrete example of when you used it."
	exampleTipProject   = "Use the STAR method (Situation, Task, Action, Result) to walk through the example."
	exampleTipGeneric   = "Add a specific example to support your answer."
)

// GenerateFeedback builds the feedback paragraph for one answer from its analysis
func GenerateFeedback(answer, question string, analysis models.AnswerAnalysis) string {
	if strings.TrimSpace(answer) == "" {
		return feedbackNoAnswer
	}

	var clauses []string

	switch {
	case analysis.Score >= 80:
		clauses = append(clauses, feedbackExcellent)
	case analysis.Score >= 60:
		clauses = append(clauses, feedbackGood)
	case analysis.Score >= 40:
		clauses = append(clauses, feedbackFair)
	default:
		clauses = append(clauses, feedbackPoor)
	}

	switch {
	case analysis.WordCount < 15:
		clauses = append(clauses, feedbackTooBrief)
	case analysis.WordCount < 30:
		clauses = append(clauses, feedbackExpand)
	}

	if analysis.WordDiversity <= lowDiversityCutoff || analysis.AvgWordLength < minAvgWordLength {
		clauses = append(clauses, feedbackUnclear)
	}

	if !analysis.HasExamples {
		clauses = append(clauses, exampleTip(question))
	}

	if analysis.SentenceCount < 3 {
		clauses = append(clauses, feedbackStructure)
	}

	if analysis.HasExamples {
		clauses = append(clauses, feedbackUsedExample)
	}
	if analysis.SentenceCount >= 3 {
		clauses = append(clauses, feedbackStructured)
	}
	if analysis.WordDiversity > 0.7 && analysis.WordCount >= 15 {
		clauses = append(clauses, feedbackVocabulary)
	}

	return strings.Join(clauses, " ")
}

// exampleTip picks an example suggestion suited to the kind of question asked
func exampleTip(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "yourself"):
		return exampleTipYourself
	case strings.Contains(q, "strengths"):
		return exampleTipStrengths
	case strings.Contains(q, "project"), strings.Contains(q, "challenge"):
		return exampleTipProject
	default:
		return exampleTipGeneric
	}
}
