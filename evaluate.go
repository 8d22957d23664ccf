package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fmuoria/interview-coach/internal/ingestion"
	"github.com/fmuoria/interview-coach/internal/models"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score interview answers and print the result as JSON",
	Long: "Score a Q:/A: transcript (.txt, .pdf or .docx) or questions and answers given as flags. " +
		"With --save the interview is stored in the results library.",
	RunE: runEvaluate,
}

var (
	evalFile       string
	evalQuestions  []string
	evalAnswers    []string
	evalConfidence int
	evalNotes      string
	evalCompany    string
	evalPosition   string
	evalSave       bool
)

func init() {
	evaluateCmd.Flags().StringVarP(&evalFile, "file", "f", "", "Path to a transcript with Q: and A: lines")
	evaluateCmd.Flags().StringArrayVarP(&evalQuestions, "question", "q", nil, "Interview question (repeatable)")
	evaluateCmd.Flags().StringArrayVarP(&evalAnswers, "answer", "a", nil, "Answer to the matching --question (repeatable)")
	evaluateCmd.Flags().IntVarP(&evalConfidence, "confidence", "c", 50, "Self-reported confidence, 0-100")
	evaluateCmd.Flags().StringVar(&evalNotes, "notes", "", "Free-form notes kept with the result")
	evaluateCmd.Flags().StringVar(&evalCompany, "company", "", "Company name (with --save)")
	evaluateCmd.Flags().StringVar(&evalPosition, "position", "", "Position title (with --save)")
	evaluateCmd.Flags().BoolVar(&evalSave, "save", false, "Store the interview in the results library")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	questions, answers, err := evaluationInput(evalFile, evalQuestions, evalAnswers)
	if err != nil {
		return err
	}

	env, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	if evalSave {
		record, err := env.agent.Submit(cmd.Context(), models.Submission{
			Company:         evalCompany,
			Position:        evalPosition,
			Questions:       questions,
			Answers:         answers,
			ConfidenceLevel: evalConfidence,
			Notes:           evalNotes,
		})
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), record)
	}

	result, err := env.agent.Evaluate(models.EvaluateRequest{
		Questions:       questions,
		Answers:         answers,
		ConfidenceLevel: evalConfidence,
		Notes:           evalNotes,
	})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

// evaluationInput reads questions and answers from a transcript file or from flag pairs
func evaluationInput(file string, questions, answers []string) ([]string, []string, error) {
	if file != "" {
		if len(questions) > 0 || len(answers) > 0 {
			return nil, nil, fmt.Errorf("cannot use --file with --question/--answer flags")
		}

		text, err := ingestion.ExtractText(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read transcript: %w", err)
		}
		questions, answers = ingestion.ParseTranscript(text)
		if len(questions) == 0 {
			return nil, nil, fmt.Errorf("no questions found in %s; prefix questions with Q: and answers with A:", file)
		}
		return questions, answers, nil
	}

	if len(questions) == 0 {
		return nil, nil, fmt.Errorf("must provide either --file or --question/--answer flags")
	}
	if len(answers) > len(questions) {
		return nil, nil, fmt.Errorf("got %d answers for %d questions", len(answers), len(questions))
	}

	// Questions left without an answer count as unanswered
	padded := make([]string, len(questions))
	copy(padded, answers)
	return questions, padded, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
