package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loam.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"schema_dir: ./schemas\ndatabase: loam.db\nformat: json\n"), 0o644))

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "./schemas", cfg.SchemaDir)
	assert.Equal(t, "loam.db", cfg.Database)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadConfig_MissingDefaultIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "loam.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadConfig_MissingExplicitFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "loam.yaml"), true)
	require.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema_dir: [unclosed"), 0o644))

	_, err := LoadConfig(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestRootCommand_RejectsBadFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "validate", validDir()})
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
