package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Assist providers.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
)

// DefaultAPIKeyEnv is the environment variable holding the assist API key.
const DefaultAPIKeyEnv = "JOT_OPENAI_API_KEY"

// AssistConfig configures the text helpers.
type AssistConfig struct {
	// Provider is "local" (heuristics only) or "openai" (remote with local fallback).
	Provider string `json:"provider,omitempty"`

	// BaseURL of an OpenAI-compatible API. Empty means the official endpoint.
	BaseURL string `json:"base_url,omitempty"`

	// Model name sent with each chat completion request.
	Model string `json:"model,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	// The key itself is never stored in the config file.
	APIKeyEnv string `json:"api_key_env,omitempty"`

	// TimeoutSeconds bounds each remote call.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// RequestsPerMinute paces remote calls.
	RequestsPerMinute int `json:"requests_per_minute,omitempty"`
}

// Timeout returns the per-call timeout as a duration.
func (a AssistConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// APIKey reads the API key from the configured environment variable.
func (a AssistConfig) APIKey() string {
	name := a.APIKeyEnv
	if name == "" {
		name = DefaultAPIKeyEnv
	}
	return strings.TrimSpace(os.Getenv(name))
}

// Config holds application configuration.
type Config struct {
	// MemoMaxChars is the maximum character count for memo content
	MemoMaxChars int `json:"memo_max_chars"`

	// AllowedPaths is an allowlist of directories for import/export operations.
	// Paths outside ~/.jot/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// When true, any directory is allowed (but symlink and extension checks still apply).
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of tool groups to disable entirely.
	// Known types: "memo", "folder", "assist", "markup".
	DisabledTypes []string `json:"disabled_types,omitempty"`

	// Assist configures the title/summary/expand/grammar helpers.
	Assist AssistConfig `json:"assist,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MemoMaxChars: 20000,
		Assist: AssistConfig{
			Provider:          ProviderLocal,
			Model:             "gpt-4o-mini",
			APIKeyEnv:         DefaultAPIKeyEnv,
			TimeoutSeconds:    15,
			RequestsPerMinute: 30,
		},
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.jot.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.jot) and repo (.jot) directories.
// Repo config is found by walking upward from startDir to find the nearest .jot/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .jot/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".jot", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.MemoMaxChars = firstNonZero(overlay.MemoMaxChars, base.MemoMaxChars)
	result.DBMaxOpenConns = firstNonZero(overlay.DBMaxOpenConns, base.DBMaxOpenConns)
	result.DBMaxIdleConns = firstNonZero(overlay.DBMaxIdleConns, base.DBMaxIdleConns)

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	result.Assist = AssistConfig{
		Provider:          firstNonEmpty(overlay.Assist.Provider, base.Assist.Provider),
		BaseURL:           firstNonEmpty(overlay.Assist.BaseURL, base.Assist.BaseURL),
		Model:             firstNonEmpty(overlay.Assist.Model, base.Assist.Model),
		APIKeyEnv:         firstNonEmpty(overlay.Assist.APIKeyEnv, base.Assist.APIKeyEnv),
		TimeoutSeconds:    firstNonZero(overlay.Assist.TimeoutSeconds, base.Assist.TimeoutSeconds),
		RequestsPerMinute: firstNonZero(overlay.Assist.RequestsPerMinute, base.Assist.RequestsPerMinute),
	}

	return result
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

func firstNonEmpty(a, b string) string {
	if s := strings.TrimSpace(a); s != "" {
		return s
	}
	return strings.TrimSpace(b)
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, list := range [][]string{a, b} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s != "" && !seen[s] {
				seen[s] = true
				result = append(result, s)
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
