package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feedbackFor(answer, question string) string {
	return GenerateFeedback(answer, question, Analyze(answer, question))
}

func TestGenerateFeedback(t *testing.T) {
	tests := []struct {
		name     string
		question string
		answer   string
		want     string
	}{
		{
			name:     "empty answer",
			question: "Tell me about yourself",
			answer:   "  ",
			want:     "No answer provided. Make sure to answer all questions.",
		},
		{
			name:     "gibberish",
			question: "Tell me about yourself",
			answer:   "a a a a a a a a a a",
			want: "This answer needs significant improvement. " +
				"The answer is too brief; aim for at least 30 words. " +
				"The answer looks repetitive or unclear; use complete sentences with varied wording. " +
				"Mention a specific project or accomplishment that shows who you are. " +
				"Organize your answer into several clear sentences.",
		},
		{
			name:     "strong answer",
			question: "Describe a challenging project you worked on",
			answer:   starAnswer,
			want: "Excellent response with strong detail and structure. " +
				"Good use of concrete examples. " +
				"Well-structured answer. " +
				"Strong, varied vocabulary.",
		},
		{
			name:     "good answer without example",
			question: "Why do you want this job?",
			answer:   "I enjoy solving hard problems with my team. I also mentor new engineers every week. Teaching helps me grow.",
			want: "Good response overall. " +
				"Expand with more detail; strong answers usually run 50 words or more. " +
				"Add a specific example to support your answer. " +
				"Well-structured answer. " +
				"Strong, varied vocabulary.",
		},
		{
			name:     "fair answer in one sentence",
			question: "Describe your ideal team",
			answer:   distinctTwenty,
			want: "Decent start, but the answer needs more depth. " +
				"Expand with more detail; strong answers usually run 50 words or more. " +
				"Add a specific example to support your answer. " +
				"Organize your answer into several clear sentences. " +
				"Strong, varied vocabulary.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, feedbackFor(tt.answer, tt.question))
		})
	}
}

func TestGenerateFeedback_ExampleTipByQuestion(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"Tell me about yourself and your background", exampleTipYourself},
		{"What are your greatest strengths?", exampleTipStrengths},
		{"Describe a challenging project you worked on", exampleTipProject},
		{"Tell me about a challenge you overcame", exampleTipProject},
		{"Tell me about yourself and your strengths", exampleTipYourself},
		{"Why do you want this job?", exampleTipGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			feedback := feedbackFor("I like working with people", tt.question)
			assert.Contains(t, feedback, tt.want)
		})
	}
}

func TestGenerateFeedback_NoVocabularyPraiseForShortAnswers(t *testing.T) {
	feedback := feedbackFor("I like working with people", "Why this role?")
	assert.NotContains(t, feedback, feedbackVocabulary)
}

func TestGenerateFeedback_Deterministic(t *testing.T) {
	question := "What are your greatest strengths?"
	assert.Equal(t, feedbackFor(starAnswer, question), feedbackFor(starAnswer, question))
}
