package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Results backends accepted in configuration
var validBackends = map[string]bool{"memory": true, "file": true, "sqlite": true}

// Config holds application configuration
type Config struct {
	Port                  string `json:"port"`
	ResultsBackend        string `json:"results_backend"`
	ResultsPath           string `json:"results_path"`
	UploadsDir            string `json:"uploads_dir"`
	QuestionBankPath      string `json:"question_bank_path"`
	QuestionSet           string `json:"question_set"`
	GoogleCloudProject    string `json:"google_cloud_project"`
	GoogleCloudLocation   string `json:"google_cloud_location"`
	GoogleCredentialsPath string `json:"google_credentials_path"`
	CoachModel            string `json:"coach_model"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		Port:                "8080",
		ResultsBackend:      "file",
		ResultsPath:         "results",
		UploadsDir:          "uploads",
		GoogleCloudLocation: "us-central1",
	}
}

// GetConfigPath returns the path to the configuration file
// On Windows: %APPDATA%/InterviewCoach/config.json
// On Unix: ~/.config/InterviewCoach/config.json
func GetConfigPath() (string, error) {
	var configDir string

	if os.Getenv("APPDATA") != "" {
		// Windows
		configDir = filepath.Join(os.Getenv("APPDATA"), "InterviewCoach")
	} else {
		// Unix-like systems
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "InterviewCoach")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load loads configuration from the default config path
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadFrom(configPath)
}

// LoadFrom loads configuration from a specific path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default config path
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnvOverrides replaces config values with any that are set in the environment
func (c *Config) ApplyEnvOverrides() {
	overrides := []struct {
		env   string
		field *string
	}{
		{"PORT", &c.Port},
		{"RESULTS_BACKEND", &c.ResultsBackend},
		{"RESULTS_PATH", &c.ResultsPath},
		{"UPLOADS_DIR", &c.UploadsDir},
		{"QUESTION_BANK", &c.QuestionBankPath},
		{"QUESTION_SET", &c.QuestionSet},
		{"GOOGLE_CLOUD_PROJECT", &c.GoogleCloudProject},
		{"GOOGLE_CLOUD_LOCATION", &c.GoogleCloudLocation},
		{"GOOGLE_APPLICATION_CREDENTIALS", &c.GoogleCredentialsPath},
		{"COACH_MODEL", &c.CoachModel},
	}

	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.field = v
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535, got %q", c.Port)
	}

	if !validBackends[c.ResultsBackend] {
		return fmt.Errorf("results_backend must be one of memory, file or sqlite, got %q", c.ResultsBackend)
	}

	if c.ResultsBackend != "memory" && c.ResultsPath == "" {
		return fmt.Errorf("results_path is required for the %s backend", c.ResultsBackend)
	}

	if c.UploadsDir == "" {
		return fmt.Errorf("uploads_dir is required")
	}

	if c.GoogleCloudProject != "" && c.GoogleCloudLocation == "" {
		return fmt.Errorf("google_cloud_location is required")
	}

	if c.GoogleCredentialsPath != "" {
		if _, err := os.Stat(c.GoogleCredentialsPath); err != nil {
			return fmt.Errorf("google credentials file not found: %w", err)
		}
	}

	if c.QuestionBankPath != "" {
		if _, err := os.Stat(c.QuestionBankPath); err != nil {
			return fmt.Errorf("question bank not found: %w", err)
		}
	}

	return nil
}

// CoachEnabled reports whether enough is configured to reach the AI coach
func (c *Config) CoachEnabled() bool {
	return c.GoogleCloudProject != ""
}

// ApplyToEnv applies configuration values to environment variables
func (c *Config) ApplyToEnv() {
	if c.GoogleCloudProject != "" {
		os.Setenv("GOOGLE_CLOUD_PROJECT", c.GoogleCloudProject)
	}
	if c.GoogleCloudLocation != "" {
		os.Setenv("GOOGLE_CLOUD_LOCATION", c.GoogleCloudLocation)
	}
	if c.GoogleCredentialsPath != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", c.GoogleCredentialsPath)
	}
	if c.CoachModel != "" {
		os.Setenv("COACH_MODEL", c.CoachModel)
	}
}
