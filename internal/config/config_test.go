package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{name: "plain bytes", input: "1024", expected: 1024},
		{name: "kilobytes", input: "64KB", expected: 64 * 1024},
		{name: "megabytes", input: "500MB", expected: 500 * 1024 * 1024},
		{name: "gigabytes", input: "1GB", expected: 1024 * 1024 * 1024},
		{name: "lowercase", input: "10mb", expected: 10 * 1024 * 1024},
		{name: "surrounding space", input: " 1 KB ", expected: 1024},
		{name: "empty", input: "", wantErr: true},
		{name: "unit only", input: "MB", wantErr: true},
		{name: "garbage", input: "lots", wantErr: true},
		{name: "negative", input: "-5MB", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMaxRepoSizeBytes(t *testing.T) {
	cfg := CloneConfig{MaxRepoSize: "1KB"}
	assert.Equal(t, int64(1024), cfg.MaxRepoSizeBytes())

	// Unparseable values fall back to the default ceiling.
	cfg = CloneConfig{MaxRepoSize: "huge"}
	assert.Equal(t, int64(DefaultMaxRepoSizeBytes), cfg.MaxRepoSizeBytes())
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultCloneTimeout, cfg.Clone.Timeout)
	assert.Equal(t, DefaultMaxRepoSize, cfg.Clone.MaxRepoSize)
	assert.Equal(t, int64(DefaultMaxReadmeSize), cfg.Analyze.MaxReadmeSize)
	assert.Equal(t, int64(DefaultMaxSampleSize), cfg.Analyze.MaxSampleSize)
	assert.Equal(t, DefaultMaxSamples, cfg.Analyze.MaxSamples)
	assert.Equal(t, DefaultMaxTreeDepth, cfg.Analyze.MaxTreeDepth)
	assert.Equal(t, DefaultMaxWalkEntries, cfg.Analyze.MaxWalkEntries)
	assert.Equal(t, DefaultLLMTimeout, cfg.LLM.Timeout)
	assert.Equal(t, DefaultLLMMaxTokens, cfg.LLM.MaxTokens)
}

func TestValidate_RejectsBadRepoSize(t *testing.T) {
	cfg := &Config{Clone: CloneConfig{MaxRepoSize: "not-a-size"}}
	assert.ErrorContains(t, cfg.Validate(), "max_repo_size")
}

func TestValidate_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Clone: CloneConfig{Timeout: 2 * time.Minute, MaxRepoSize: "100MB"},
		LLM:   LLMConfig{Timeout: time.Minute, MaxTokens: 1000},
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2*time.Minute, cfg.Clone.Timeout)
	assert.Equal(t, "100MB", cfg.Clone.MaxRepoSize)
	assert.Equal(t, time.Minute, cfg.LLM.Timeout)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultLLMProvider, cfg.LLM.Provider)
	assert.Equal(t, DefaultMaxRepoSize, cfg.Clone.MaxRepoSize)
	assert.True(t, cfg.History.Enabled)
	assert.NotEmpty(t, cfg.Clone.BaseDir)
	assert.NotEmpty(t, cfg.Skill.OutputDir)
	assert.NotEmpty(t, cfg.History.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoadWithViper_EnvOverride(t *testing.T) {
	t.Setenv("SKILLFORGE_LLM_PROVIDER", "openai")
	t.Setenv("SKILLFORGE_LLM_MODEL", "gpt-4o")

	cfg, _, err := LoadWithViper()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
}

func TestLoadWithViper_GitHubTokenFallback(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_fallback")
	t.Setenv("SKILLFORGE_GITHUB_TOKEN", "")

	cfg, _, err := LoadWithViper()
	require.NoError(t, err)
	assert.Equal(t, "ghp_fallback", cfg.GitHub.Token)
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	assert.Equal(t, DefaultLLMProvider, v.GetString("llm.provider"))
	assert.Equal(t, DefaultMaxRepoSize, v.GetString("clone.max_repo_size"))
	assert.Equal(t, DefaultHistoryEnabled, v.GetBool("history.enabled"))
	assert.Equal(t, DefaultLogLevel, v.GetString("logging.level"))
}
