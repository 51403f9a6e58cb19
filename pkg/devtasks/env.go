package devtasks

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// VenvBinDir returns the directory holding the environment's executables
func VenvBinDir(venv string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venv, "Scripts")
	}
	return filepath.Join(venv, "bin")
}

// activationOverrides mirrors what the venv activate script does
func activationOverrides(venv string, base []string) map[string]string {
	path := ""
	for _, item := range base {
		parts := strings.SplitN(item, "=", 2)
		if len(parts) == 2 && envKey(parts[0]) == "PATH" {
			path = parts[1]
		}
	}

	binDir := VenvBinDir(venv)
	if path != "" {
		path = binDir + string(os.PathListSeparator) + path
	} else {
		path = binDir
	}

	return map[string]string{
		"VIRTUAL_ENV": venv,
		"PATH":        path,
	}
}

// StepEnv builds the environment for a single step from base (usually os.Environ()). The returned
// slice is a fresh copy; the process environment is never modified.
func StepEnv(cfg *Config, step Step, base []string) []string {
	var overrides map[string]string
	if step.Activated {
		overrides = activationOverrides(cfg.VenvPath(), base)
	}

	shellEnv := make([]string, 0, len(base)+len(overrides))
	for _, item := range base {
		parts := strings.SplitN(item, "=", 2)
		key := envKey(parts[0])

		// skip overriden entries to avoid conflicts
		if _, present := overrides[key]; present {
			continue
		}

		if step.Activated && key == "PYTHONHOME" {
			continue
		}

		shellEnv = append(shellEnv, item)
	}

	for _, k := range []string{"VIRTUAL_ENV", "PATH"} {
		if v, ok := overrides[k]; ok {
			shellEnv = append(shellEnv, fmt.Sprintf("%s=%s", k, v))
		}
	}

	return shellEnv
}

func envKey(name string) string {
	if runtime.GOOS == "windows" {
		return strings.ToUpper(name)
	}
	return name
}
