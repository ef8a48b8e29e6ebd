package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	v := viper.GetViper()
	return loadWith(v)
}

// LoadWithViper loads configuration with a fresh viper instance.
func LoadWithViper() (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg, err := loadWith(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func loadWith(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (SKILLFORGE_*)
	v.SetEnvPrefix("SKILLFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// GITHUB_TOKEN is the conventional variable name; honor it when the
	// config file and SKILLFORGE_GITHUB_TOKEN leave the token unset.
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("clone.base_dir", TempDir())
	v.SetDefault("clone.timeout", DefaultCloneTimeout)
	v.SetDefault("clone.max_repo_size", DefaultMaxRepoSize)

	v.SetDefault("analyze.max_readme_size", DefaultMaxReadmeSize)
	v.SetDefault("analyze.max_sample_size", DefaultMaxSampleSize)
	v.SetDefault("analyze.max_samples", DefaultMaxSamples)
	v.SetDefault("analyze.max_tree_depth", DefaultMaxTreeDepth)
	v.SetDefault("analyze.max_tree_entries", DefaultMaxTreeEntries)
	v.SetDefault("analyze.max_walk_entries", DefaultMaxWalkEntries)

	v.SetDefault("llm.provider", DefaultLLMProvider)
	v.SetDefault("llm.max_tokens", DefaultLLMMaxTokens)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)
	v.SetDefault("llm.max_retries", DefaultLLMRetries)

	v.SetDefault("skill.output_dir", OutputDir())
	v.SetDefault("skill.install_dir", InstallDir())

	v.SetDefault("history.enabled", DefaultHistoryEnabled)
	v.SetDefault("history.path", HistoryPath())

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}
