// Package scoring implements the heuristic answer-quality evaluator used for mock interviews.
//
// Everything in this package is pure: no I/O, no shared state and no randomness, so the same
// inputs always produce the same analysis, score and feedback text.
package scoring

import (
	"strings"
	"unicode/utf8"

	"github.com/fmuoria/interview-coach/internal/models"
)

// Score component caps and penalties
const (
	maxScore = 100

	diversityPenalty   = 30
	shortTokenPenalty  = 20
	minAvgWordLength   = 2.0
	exampleBonus       = 20
	lowDiversityCutoff = 0.3
)

// exampleKeywords signal concrete evidence in an answer (matched case-insensitively as substrings)
var exampleKeywords = []string{
	"example",
	"instance",
	"time when",
	"situation",
	"project",
	"experience",
	"specifically",
	"resulted in",
	"achieved",
	"led to",
}

// Analyze computes the quality metrics and score for one answer.
// An empty or whitespace-only answer yields the zero analysis.
func Analyze(answer, question string) models.AnswerAnalysis {
	if strings.TrimSpace(answer) == "" {
		return models.AnswerAnalysis{}
	}

	tokens := strings.Fields(answer)

	analysis := models.AnswerAnalysis{
		WordCount:     len(tokens),
		SentenceCount: countSentences(answer),
		HasExamples:   hasExamples(answer),
		WordDiversity: wordDiversity(tokens),
		AvgWordLength: avgWordLength(tokens),
	}
	analysis.Score = computeScore(analysis)

	return analysis
}

// computeScore applies the additive components, then the diversity and short-token penalties
func computeScore(a models.AnswerAnalysis) int {
	score := lengthComponent(a.WordCount) + structureComponent(a.SentenceCount)
	if a.HasExamples {
		score += exampleBonus
	}

	switch {
	case a.WordDiversity > 0.7:
		score += 20
	case a.WordDiversity > 0.5:
		score += 10
	case a.WordDiversity > lowDiversityCutoff:
		score += 5
	default:
		score = subtractFloored(score, diversityPenalty)
	}

	if a.AvgWordLength < minAvgWordLength {
		score = subtractFloored(score, shortTokenPenalty)
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

func lengthComponent(wordCount int) int {
	switch {
	case wordCount >= 50:
		return 40
	case wordCount >= 30:
		return 30
	case wordCount >= 15:
		return 20
	case wordCount >= 5:
		return 10
	default:
		return 0
	}
}

func structureComponent(sentenceCount int) int {
	switch {
	case sentenceCount >= 3:
		return 20
	case sentenceCount >= 2:
		return 10
	case sentenceCount >= 1:
		return 5
	default:
		return 0
	}
}

func subtractFloored(score, penalty int) int {
	score -= penalty
	if score < 0 {
		return 0
	}
	return score
}

// countSentences counts the non-empty segments between periods
func countSentences(text string) int {
	count := 0
	for _, segment := range strings.Split(text, ".") {
		if strings.TrimSpace(segment) != "" {
			count++
		}
	}
	return count
}

func hasExamples(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range exampleKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// wordDiversity is the ratio of distinct lowercased tokens to all tokens
func wordDiversity(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}

	unique := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		unique[strings.ToLower(token)] = struct{}{}
	}

	return float64(len(unique)) / float64(len(tokens))
}

func avgWordLength(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}

	total := 0
	for _, token := range tokens {
		total += utf8.RuneCountInString(token)
	}

	return float64(total) / float64(len(tokens))
}
