package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	SetDefaults()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "heuristic", s.Engine)
	assert.Equal(t, "ollama", s.Backend)
	assert.Equal(t, 30*time.Second, s.Timeout)
	assert.Equal(t, 2, s.MaxRetries)
	assert.Equal(t, 12, s.WindowInitialMinutes)
	assert.Equal(t, 10, s.WindowMaxMarkerSegments)
	assert.Equal(t, 50, s.WindowContextWords)
	assert.NotContains(t, s.DatabasePath, "~")
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	resetViper(t)
	viper.Set("engine", "psychic")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine must be")
}

func TestLoadOpenAIKeyComesFromEnvironment(t *testing.T) {
	resetViper(t)
	viper.Set("llm.backend", "openai")
	viper.Set("engine", "auto")
	t.Setenv("OPENAI_API_KEY", "sk-test-123")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", s.APIKey)
}

func TestLoadOpenAIWithoutKeyFailsForRemoteEngines(t *testing.T) {
	resetViper(t)
	viper.Set("llm.backend", "openai")
	viper.Set("engine", "remote")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadOpenAIWithoutKeyIsFineHeuristic(t *testing.T) {
	resetViper(t)
	viper.Set("llm.backend", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	s, err := Load()
	require.NoError(t, err)
	assert.Empty(t, s.APIKey)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "notes"), ExpandPath("~/notes"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/absolute/path", ExpandPath("/absolute/path"))

	t.Setenv("MINUTEMAN_TEST_DIR", "/data")
	expanded := ExpandPath("$MINUTEMAN_TEST_DIR/db")
	assert.True(t, strings.HasPrefix(expanded, "/data"))
}
