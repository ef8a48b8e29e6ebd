package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Clone   CloneConfig   `mapstructure:"clone" yaml:"clone"`
	Analyze AnalyzeConfig `mapstructure:"analyze" yaml:"analyze"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Skill   SkillConfig   `mapstructure:"skill" yaml:"skill"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	GitHub  GitHubConfig  `mapstructure:"github" yaml:"github"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CloneConfig bounds the repository fetch step
type CloneConfig struct {
	BaseDir     string        `mapstructure:"base_dir" yaml:"base_dir"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRepoSize string        `mapstructure:"max_repo_size" yaml:"max_repo_size"`
}

// MaxRepoSizeBytes returns the parsed size ceiling in bytes.
func (c *CloneConfig) MaxRepoSizeBytes() int64 {
	n, err := ParseSize(c.MaxRepoSize)
	if err != nil {
		return DefaultMaxRepoSizeBytes
	}
	return n
}

// AnalyzeConfig bounds the content extraction step
type AnalyzeConfig struct {
	MaxReadmeSize  int64 `mapstructure:"max_readme_size" yaml:"max_readme_size"`
	MaxSampleSize  int64 `mapstructure:"max_sample_size" yaml:"max_sample_size"`
	MaxSamples     int   `mapstructure:"max_samples" yaml:"max_samples"`
	MaxTreeDepth   int   `mapstructure:"max_tree_depth" yaml:"max_tree_depth"`
	MaxTreeEntries int   `mapstructure:"max_tree_entries" yaml:"max_tree_entries"`
	MaxWalkEntries int   `mapstructure:"max_walk_entries" yaml:"max_walk_entries"`
}

// LLMConfig contains LLM provider settings
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" yaml:"provider"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	Model       string        `mapstructure:"model" yaml:"model"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// SkillConfig contains skill output settings
type SkillConfig struct {
	OutputDir      string `mapstructure:"output_dir" yaml:"output_dir"`
	InstallDir     string `mapstructure:"install_dir" yaml:"install_dir"`
	PromptTemplate string `mapstructure:"prompt_template" yaml:"prompt_template"`
}

// HistoryConfig contains history database settings
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// GitHubConfig contains hosting API settings. The token is optional; it
// only raises metadata rate limits and authenticates private clones.
type GitHubConfig struct {
	Token      string `mapstructure:"token" yaml:"token"`
	APIBaseURL string `mapstructure:"api_base_url" yaml:"api_base_url"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and fills invalid values with defaults
func (c *Config) Validate() error {
	if c.Clone.Timeout < time.Second {
		c.Clone.Timeout = DefaultCloneTimeout
	}
	if c.Clone.MaxRepoSize == "" {
		c.Clone.MaxRepoSize = DefaultMaxRepoSize
	} else {
		if _, err := ParseSize(c.Clone.MaxRepoSize); err != nil {
			return fmt.Errorf("invalid clone.max_repo_size: %w", err)
		}
	}
	if c.Analyze.MaxReadmeSize <= 0 {
		c.Analyze.MaxReadmeSize = DefaultMaxReadmeSize
	}
	if c.Analyze.MaxSampleSize <= 0 {
		c.Analyze.MaxSampleSize = DefaultMaxSampleSize
	}
	if c.Analyze.MaxSamples <= 0 {
		c.Analyze.MaxSamples = DefaultMaxSamples
	}
	if c.Analyze.MaxTreeDepth <= 0 {
		c.Analyze.MaxTreeDepth = DefaultMaxTreeDepth
	}
	if c.Analyze.MaxTreeEntries <= 0 {
		c.Analyze.MaxTreeEntries = DefaultMaxTreeEntries
	}
	if c.Analyze.MaxWalkEntries <= 0 {
		c.Analyze.MaxWalkEntries = DefaultMaxWalkEntries
	}
	if c.LLM.Timeout < time.Second {
		c.LLM.Timeout = DefaultLLMTimeout
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = DefaultLLMMaxTokens
	}
	return nil
}

// ParseSize parses a human-readable size string ("500MB", "1GB", "64KB").
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var multiplier int64 = 1
	if strings.HasSuffix(s, "GB") {
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	} else if strings.HasSuffix(s, "MB") {
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	} else if strings.HasSuffix(s, "KB") {
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no numeric value in size string")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("negative size not allowed")
	}

	return n * multiplier, nil
}
