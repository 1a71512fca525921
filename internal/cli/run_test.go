package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavinsood/tanuki/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tanuki.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunDryRunWithValidConfig(t *testing.T) {
	path := writeConfig(t, `{"outputDir": "datasets"}`)

	out, err := execute(t, "run", "--config", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
}

func TestRunDryRunWithInvalidConfig(t *testing.T) {
	path := writeConfig(t, `{"baseUrl": ""}`)

	_, err := execute(t, "run", "--config", path, "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tanuki "+version.Version+"\n", out)
}
