// Package config resolves application settings from flags, environment
// variables, and the config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/minuteman-notes/minuteman/internal/common"
)

// Settings is the resolved application configuration. Precedence is
// flags over environment over config file over defaults; viper handles
// the merge before this struct is filled.
type Settings struct {
	// Engine selects the classification mode: heuristic, remote, auto.
	Engine string
	// Backend names the remote provider: openai or ollama.
	Backend string
	Model   string
	BaseURL string
	// APIKey is read from the environment only. It never comes from the
	// config file or a flag, and must never be written back out.
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	Temperature float64

	// Window bounds for remote calls.
	WindowInitialMinutes    int
	WindowMaxMarkerSegments int
	WindowContextWords      int

	// DatabasePath locates the run-history database.
	DatabasePath string
}

// SetDefaults registers the configuration defaults with viper.
func SetDefaults() {
	viper.SetDefault("engine", "heuristic")
	viper.SetDefault("llm.backend", "ollama")
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.base_url", "")
	viper.SetDefault("llm.timeout_seconds", 30)
	viper.SetDefault("llm.max_retries", 2)
	viper.SetDefault("llm.retry_delay_seconds", 1)
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("window.initial_minutes", 12)
	viper.SetDefault("window.max_marker_segments", 10)
	viper.SetDefault("window.context_words", 50)
	viper.SetDefault("database.path", "~/.local/share/minuteman/minuteman.db")
}

// Load resolves the settings from viper plus the key environment
// variables. Secrets stay out of viper entirely so they can never leak
// into a written config file.
func Load() (Settings, error) {
	s := Settings{
		Engine:                  viper.GetString("engine"),
		Backend:                 viper.GetString("llm.backend"),
		Model:                   viper.GetString("llm.model"),
		BaseURL:                 viper.GetString("llm.base_url"),
		Timeout:                 time.Duration(viper.GetInt("llm.timeout_seconds")) * time.Second,
		MaxRetries:              viper.GetInt("llm.max_retries"),
		RetryDelay:              time.Duration(viper.GetInt("llm.retry_delay_seconds")) * time.Second,
		Temperature:             viper.GetFloat64("llm.temperature"),
		WindowInitialMinutes:    viper.GetInt("window.initial_minutes"),
		WindowMaxMarkerSegments: viper.GetInt("window.max_marker_segments"),
		WindowContextWords:      viper.GetInt("window.context_words"),
		DatabasePath:            ExpandPath(viper.GetString("database.path")),
	}

	switch s.Engine {
	case "heuristic", "remote", "auto":
	default:
		return Settings{}, fmt.Errorf("%w: engine must be heuristic, remote, or auto, got %q", common.ErrInvalidConfig, s.Engine)
	}

	if s.Backend == "openai" {
		s.APIKey = os.Getenv("OPENAI_API_KEY")
		if s.APIKey == "" && (s.Engine == "remote" || s.Engine == "auto") {
			return Settings{}, fmt.Errorf("%w: OPENAI_API_KEY is not set", common.ErrMissingConfig)
		}
	}

	return s, nil
}

// ExpandPath resolves a leading ~ to the user's home directory and then
// expands $VAR environment references.
func ExpandPath(path string) string {
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return os.ExpandEnv(path)
}
