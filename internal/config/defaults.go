package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Clone defaults
	DefaultCloneTimeout     = 5 * time.Minute
	DefaultMaxRepoSize      = "500MB"
	DefaultMaxRepoSizeBytes = 500 * 1024 * 1024

	// Analyze defaults
	DefaultMaxReadmeSize  = 1024 * 1024 // skip READMEs over 1 MiB entirely
	DefaultMaxSampleSize  = 100 * 1024
	DefaultMaxSamples     = 5
	DefaultMaxTreeDepth   = 3
	DefaultMaxTreeEntries = 200
	DefaultMaxWalkEntries = 10000

	// LLM defaults
	DefaultLLMProvider  = "anthropic"
	DefaultLLMMaxTokens = 32000
	DefaultLLMTimeout   = 5 * time.Minute
	DefaultLLMRetries   = 3

	// History defaults
	DefaultHistoryEnabled = true

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// Batch ceiling for a single invocation
	MaxBatchSize = 5
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillforge"
	}
	return filepath.Join(home, ".skillforge")
}

// TempDir returns the clone base directory path
func TempDir() string {
	return filepath.Join(ConfigDir(), "tmp")
}

// OutputDir returns the default skill output directory
func OutputDir() string {
	return filepath.Join(ConfigDir(), "generated")
}

// HistoryPath returns the default history database path
func HistoryPath() string {
	return filepath.Join(ConfigDir(), "history.db")
}

// InstallDir returns the default skill installation directory
func InstallDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".claude", "skills")
	}
	return filepath.Join(home, ".claude", "skills")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Clone: CloneConfig{
			BaseDir:     TempDir(),
			Timeout:     DefaultCloneTimeout,
			MaxRepoSize: DefaultMaxRepoSize,
		},
		Analyze: AnalyzeConfig{
			MaxReadmeSize:  DefaultMaxReadmeSize,
			MaxSampleSize:  DefaultMaxSampleSize,
			MaxSamples:     DefaultMaxSamples,
			MaxTreeDepth:   DefaultMaxTreeDepth,
			MaxTreeEntries: DefaultMaxTreeEntries,
			MaxWalkEntries: DefaultMaxWalkEntries,
		},
		LLM: LLMConfig{
			Provider:   DefaultLLMProvider,
			MaxTokens:  DefaultLLMMaxTokens,
			Timeout:    DefaultLLMTimeout,
			MaxRetries: DefaultLLMRetries,
		},
		Skill: SkillConfig{
			OutputDir:  OutputDir(),
			InstallDir: InstallDir(),
		},
		History: HistoryConfig{
			Enabled: DefaultHistoryEnabled,
			Path:    HistoryPath(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
