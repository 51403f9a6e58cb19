package devtasks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := newProject(t)

	assert.Equal(t, "python3", cfg.Python)
	assert.Equal(t, filepath.Join(cfg.Root, "venv"), cfg.VenvPath())
	assert.Equal(t, filepath.Join(cfg.Root, "dist"), cfg.DistPath())
	assert.Equal(t, []string{"mimic3_tts", "mimic3_http", "opentts_abc"}, cfg.Check.Modules)
	assert.Equal(t, []string{"flake8", "pylint", "mypy"}, cfg.Check.Analyzers)
	assert.Equal(t, CheckFilesCombined, cfg.Check.Files)
	assert.False(t, cfg.Develop)
	assert.Equal(t, []string{"-f", filepath.Join(cfg.Root, "wheels"), "-f", PrebuiltAppsURL}, cfg.PipArgs())
	require.NoError(t, cfg.Validate())
}

func TestVenvPathIsDeterministic(t *testing.T) {
	cfg := newProject(t)

	again, err := LoadConfig(cfg.Root)
	require.NoError(t, err)
	assert.Equal(t, cfg.VenvPath(), again.VenvPath())
}

func TestPipArgsOverride(t *testing.T) {
	cfg := newProject(t)
	t.Setenv(PipArgsEnv, `--index-url "https://example.com/my index" -f /srv/wheels`)

	require.NoError(t, cfg.Finish())
	assert.Equal(t, []string{"--index-url", "https://example.com/my index", "-f", "/srv/wheels"}, cfg.PipArgs())
}

func TestPipArgsOverrideEmpty(t *testing.T) {
	cfg := newProject(t)
	t.Setenv(PipArgsEnv, "")

	require.NoError(t, cfg.Finish())
	assert.Empty(t, cfg.PipArgs())
}

func TestPipArgsOverrideMalformed(t *testing.T) {
	cfg := newProject(t)
	t.Setenv(PipArgsEnv, `-f "unterminated`)

	assert.Error(t, cfg.Finish())
}

func TestLoadConfigFile(t *testing.T) {
	unsetEnv(t, PipArgsEnv)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectMarker), "")
	writeFile(t, filepath.Join(root, ConfigFile), `python = "python3.9"
venv_dir = ".venv"

[check]
files = "tests-only"
`)

	cfg, err := LoadConfig(root)
	require.NoError(t, err)

	assert.Equal(t, "python3.9", cfg.Python)
	assert.Equal(t, filepath.Join(cfg.Root, ".venv"), cfg.VenvPath())
	assert.Equal(t, CheckFilesTestsOnly, cfg.Check.Files)
	assert.Equal(t, "black", cfg.Check.Formatter)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("DEVTASKS_DIST_DIR", "out")
	cfg := newProject(t)

	assert.Equal(t, filepath.Join(cfg.Root, "out"), cfg.DistPath())
}

func TestLoadConfigEnvDevelop(t *testing.T) {
	t.Setenv("DEVTASKS_DEVELOP", "true")
	cfg := newProject(t)

	assert.True(t, cfg.Develop)
	assert.NotEqual(t, -1, indexOf(InstallTask(cfg), "install-dev-requirements"))
}

func TestLoadConfigExplicitRootWins(t *testing.T) {
	unsetEnv(t, PipArgsEnv)
	root := t.TempDir()
	other := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectMarker), "")
	writeFile(t, filepath.Join(root, ConfigFile), "root = \""+filepath.ToSlash(other)+"\"\n")
	t.Setenv("DEVTASKS_ROOT", other)

	cfg, err := LoadConfig(root)
	require.NoError(t, err)

	expected, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, expected, cfg.Root)
	assert.Equal(t, filepath.Join(expected, "venv"), cfg.VenvPath())
}

func TestLoadConfigRootFromEnv(t *testing.T) {
	unsetEnv(t, PipArgsEnv)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectMarker), "")
	t.Setenv("DEVTASKS_ROOT", root)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	expected, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, expected, cfg.Root)
}

func TestLoadConfigInvalidRoot(t *testing.T) {
	unsetEnv(t, PipArgsEnv)
	file := filepath.Join(t.TempDir(), "file")
	writeFile(t, file, "")

	_, err := LoadConfig(file)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := newProject(t)

	cfg.Check.Files = "replace"
	assert.Error(t, cfg.Validate())

	cfg.Check.Files = CheckFilesCombined
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg.Log.Level = "warning"
	require.NoError(t, cfg.Validate())
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectMarker), "")
	nested := filepath.Join(root, "mimic3_tts", "utils")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindProjectRoot(nested)
	require.NoError(t, err)

	expected, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, expected, found)
}

func TestFindProjectRootMissing(t *testing.T) {
	_, err := FindProjectRoot(t.TempDir())
	if err == nil {
		t.Skip("a parent of the temp directory contains setup.py")
	}

	assert.Contains(t, err.Error(), "Project root not found")
}
