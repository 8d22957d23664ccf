package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSetName names the built-in question set
const DefaultSetName = "general"

// DefaultQuestions is the built-in question set used when no bank is configured
var DefaultQuestions = []string{
	"Tell me about yourself and your background",
	"What are your greatest strengths?",
	"Describe a challenging project you worked on",
}

// QuestionBank holds named sets of interview questions
type QuestionBank struct {
	Version int                 `yaml:"version"`
	Default string              `yaml:"default"`
	Sets    map[string][]string `yaml:"sets"`
}

// DefaultQuestionBank returns a bank holding only the built-in set
func DefaultQuestionBank() *QuestionBank {
	return &QuestionBank{
		Version: 1,
		Default: DefaultSetName,
		Sets: map[string][]string{
			DefaultSetName: append([]string(nil), DefaultQuestions...),
		},
	}
}

// LoadQuestionBank reads a YAML question bank; an empty path gives the built-in bank
func LoadQuestionBank(path string) (*QuestionBank, error) {
	if path == "" {
		return DefaultQuestionBank(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}

	return ParseQuestionBank(data)
}

// ParseQuestionBank decodes and validates YAML question bank content
func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var bank QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}

	if len(bank.Sets) == 0 {
		return nil, fmt.Errorf("question bank has no question sets")
	}

	for name, questions := range bank.Sets {
		if len(questions) == 0 {
			return nil, fmt.Errorf("question set %q is empty", name)
		}
		for i, q := range questions {
			q = strings.TrimSpace(q)
			if q == "" {
				return nil, fmt.Errorf("question %d in set %q is blank", i+1, name)
			}
			questions[i] = q
		}
	}

	if bank.Default == "" {
		if len(bank.Sets) != 1 {
			return nil, fmt.Errorf("question bank must name a default set")
		}
		for name := range bank.Sets {
			bank.Default = name
		}
	}
	if _, ok := bank.Sets[bank.Default]; !ok {
		return nil, fmt.Errorf("default question set %q not found", bank.Default)
	}

	return &bank, nil
}

// Questions returns a copy of the named set; an empty name selects the default set
func (b *QuestionBank) Questions(name string) ([]string, error) {
	if name == "" {
		name = b.Default
	}

	questions, ok := b.Sets[name]
	if !ok {
		return nil, fmt.Errorf("unknown question set %q", name)
	}

	return append([]string(nil), questions...), nil
}

// SetNames lists the question sets in alphabetical order
func (b *QuestionBank) SetNames() []string {
	names := make([]string, 0, len(b.Sets))
	for name := range b.Sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
