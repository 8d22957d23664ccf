package ingestion

import "strings"

const (
	questionPrefix = "q:"
	answerPrefix   = "a:"
)

// ParseTranscript splits interview transcript text into parallel question and answer slices.
// Lines starting with "Q:" open a question and lines starting with "A:" hold its answer;
// other lines continue whichever item came last. Text before the first question is ignored
// and a question that is never answered gets an empty answer.
func ParseTranscript(text string) ([]string, []string) {
	var questions, answers []string
	inAnswer := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rest, ok := cutPrefixFold(line, questionPrefix); ok {
			questions = append(questions, rest)
			answers = append(answers, "")
			inAnswer = false
			continue
		}

		if len(questions) == 0 {
			continue
		}
		last := len(questions) - 1

		if rest, ok := cutPrefixFold(line, answerPrefix); ok {
			answers[last] = joinLine(answers[last], rest)
			inAnswer = true
			continue
		}

		if inAnswer {
			answers[last] = joinLine(answers[last], line)
		} else {
			questions[last] = joinLine(questions[last], line)
		}
	}

	return questions, answers
}

func cutPrefixFold(line, prefix string) (string, bool) {
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(prefix):]), true
}

func joinLine(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
