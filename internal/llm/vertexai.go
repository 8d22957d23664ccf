package llm

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured
const DefaultModel = "gemini-1.5-flash"

// Options configures the Vertex AI client
type Options struct {
	ProjectID       string
	Location        string
	Model           string
	CredentialsFile string
}

// VertexAIClient wraps the Vertex AI Gemini API
type VertexAIClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	projectID string
	location  string
}

// OptionsFromEnv reads client options from the standard Google Cloud environment variables
func OptionsFromEnv() Options {
	return Options{
		ProjectID:       os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:        os.Getenv("GOOGLE_CLOUD_LOCATION"),
		Model:           os.Getenv("COACH_MODEL"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}
}

// NewVertexAIClient creates a new Vertex AI client
func NewVertexAIClient(ctx context.Context, opts Options) (*VertexAIClient, error) {
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("google cloud project is not set")
	}

	location := opts.Location
	if location == "" {
		location = "us-central1"
	}
	modelName := opts.Model
	if modelName == "" {
		modelName = DefaultModel
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := genai.NewClient(ctx, opts.ProjectID, location, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Coaching text benefits from a little more variety than strict scoring
	model.SetTemperature(0.4)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(2048)

	return &VertexAIClient{
		client:    client,
		model:     model,
		projectID: opts.ProjectID,
		location:  location,
	}, nil
}

// GenerateContent sends a prompt to the model and returns the response
func (v *VertexAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates returned")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}

	return result, nil
}

// Close closes the Vertex AI client
func (v *VertexAIClient) Close() error {
	return v.client.Close()
}
