package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fmuoria/interview-coach/internal/agent"
	"github.com/fmuoria/interview-coach/internal/coaching"
	"github.com/fmuoria/interview-coach/internal/config"
	"github.com/fmuoria/interview-coach/internal/ingestion"
	"github.com/fmuoria/interview-coach/internal/llm"
	"github.com/fmuoria/interview-coach/internal/results"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview-coach",
	Short: "Mock interview practice with answer scoring",
	Long:  "Interview Coach scores mock interview answers, keeps a library of past results and can ask an AI coach for tips.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// environment is everything a command needs to run interviews
type environment struct {
	cfg   *config.Config
	agent *agent.InterviewAgent
	llm   *llm.VertexAIClient
}

// setup loads configuration and wires the results store, document library and optional AI coach
func setup(ctx context.Context) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.ApplyToEnv()

	bank, err := config.LoadQuestionBank(cfg.QuestionBankPath)
	if err != nil {
		return nil, err
	}
	questions, err := bank.Questions(cfg.QuestionSet)
	if err != nil {
		return nil, err
	}

	store, err := results.Open(cfg.ResultsBackend, cfg.ResultsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open results store: %w", err)
	}

	env := &environment{
		cfg:   cfg,
		agent: agent.NewInterviewAgent(store, ingestion.NewFileHandler(cfg.UploadsDir), questions),
	}

	if cfg.CoachEnabled() {
		client, err := llm.NewVertexAIClient(ctx, llm.OptionsFromEnv())
		if err != nil {
			log.Printf("AI coach disabled: %v", err)
		} else {
			env.llm = client
			env.agent.SetCoach(coaching.NewCoach(client))
		}
	}

	return env, nil
}

// Close releases the results store and the AI client
func (e *environment) Close() {
	if err := e.agent.Close(); err != nil {
		log.Printf("Failed to close results store: %v", err)
	}
	if e.llm != nil {
		if err := e.llm.Close(); err != nil {
			log.Printf("Failed to close AI client: %v", err)
		}
	}
}
