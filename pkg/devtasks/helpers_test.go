package devtasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes name for the duration of the test
func unsetEnv(t *testing.T, name string) {
	t.Helper()
	if _, ok := os.LookupEnv(name); ok {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newProject creates an empty Python project and loads its config
func newProject(t *testing.T) *Config {
	t.Helper()
	unsetEnv(t, PipArgsEnv)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectMarker), "from setuptools import setup\nsetup()\n")

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	return cfg
}

func testContext() context.Context {
	logger := zerolog.Nop()
	return WithLogger(context.Background(), &logger)
}
