package devtasks

import (
	"os"
	"path/filepath"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"mvdan.cc/sh/v3/shell"
)

const (
	// ConfigFile is looked up in the project root
	ConfigFile = "devtasks.toml"
	// PipArgsEnv overrides the index location flags passed to every pip install
	PipArgsEnv = "PIP_INSTALL_ARGS"
	// PrebuiltAppsURL hosts prebuilt wheels for packages without official binaries
	PrebuiltAppsURL = "https://synesthesiam.github.io/prebuilt-apps/"
)

// File list variants for the check task
const (
	CheckFilesCombined  = "combined"
	CheckFilesTestsOnly = "tests-only"
)

// Config describes all configuration options
type Config struct {
	Root    string `toml:"root" env:"ROOT" usage:"Project root (defaults to the closest parent directory containing setup.py)"`
	Develop bool   `toml:"develop" env:"DEVELOP" default:"false" usage:"Also install the development requirements"`
	DryRun  bool   `toml:"dry_run" env:"DRY_RUN" default:"false" usage:"Only print the commands, don't execute anything"`
	Debug   bool   `toml:"debug" env:"DEBUG" default:"false" usage:"Include stack traces and all log fields in the console output"`

	Python          string `toml:"python" env:"PYTHON" default:"python3" usage:"Python interpreter used to create the environment"`
	VenvDir         string `toml:"venv_dir" env:"VENV_DIR" default:"venv"`
	DistDir         string `toml:"dist_dir" env:"DIST_DIR" default:"dist"`
	Extras          string `toml:"extras" env:"EXTRAS" default:"all" usage:"Optional dependency group installed with the project"`
	DevRequirements string `toml:"dev_requirements" env:"DEV_REQUIREMENTS" default:"requirements_dev.txt"`
	WheelsDir       string `toml:"wheels_dir" env:"WHEELS_DIR" default:"wheels" usage:"Local wheel directory passed to pip"`

	Log struct {
		Level string `toml:"level" env:"LEVEL" default:"info"`
		JSON  bool   `toml:"json" env:"JSON" default:"false" usage:"Output JSONND instead of pretty console messages"`
	} `toml:"log" env:"LOG"`

	Check struct {
		Modules      []string `toml:"modules" env:"MODULES" default:"mimic3_tts,mimic3_http,opentts_abc"`
		Tests        string   `toml:"tests" env:"TESTS" default:"tests/**/*.py"`
		Files        string   `toml:"files" env:"FILES" default:"combined" usage:"combined or tests-only"`
		Formatter    string   `toml:"formatter" env:"FORMATTER" default:"black"`
		ImportSorter string   `toml:"import_sorter" env:"IMPORT_SORTER" default:"isort"`
		Analyzers    []string `toml:"analyzers" env:"ANALYZERS" default:"flake8,pylint,mypy"`
	} `toml:"check" env:"CHECK"`

	pipArgs []string
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// LoadConfig reads the defaults, the optional devtasks.toml inside root and DEVTASKS_* environment
// variables. An explicit root always wins; an empty root falls back to DEVTASKS_ROOT and then to
// searching upwards from the working directory.
func LoadConfig(root string) (*Config, error) {
	cfg := new(Config)

	if root == "" {
		root = os.Getenv("DEVTASKS_ROOT")
	}

	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, eris.Wrap(err, "failed to retrieve the current working directory")
		}

		root, err = FindProjectRoot(wd)
		if err != nil {
			return nil, err
		}
	}

	files := []string{}
	cfgPath := filepath.Join(root, ConfigFile)
	if _, err := os.Stat(cfgPath); err == nil {
		files = append(files, cfgPath)
	} else if !eris.Is(err, os.ErrNotExist) {
		return nil, eris.Wrapf(err, "failed to check %s", cfgPath)
	}

	loader := aconfig.LoaderFor(cfg, aconfig.Config{
		EnvPrefix: "DEVTASKS",
		SkipFlags: true,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, eris.Wrap(err, "failed to load config")
	}

	// root was resolved before the file was read; neither the file nor the env may move it
	cfg.Root = root

	if err := cfg.Finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finish normalizes the root and resolves the pip arguments. It has to be called again whenever
// Root or WheelsDir change.
func (cfg *Config) Finish() error {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return eris.Wrapf(err, "failed to resolve %s", cfg.Root)
	}

	info, err := os.Stat(root)
	if err != nil {
		return eris.Wrapf(err, "invalid project root %s", root)
	}
	if !info.IsDir() {
		return eris.Errorf("project root %s is not a directory", root)
	}
	cfg.Root = root

	override, ok := os.LookupEnv(PipArgsEnv)
	if !ok {
		cfg.pipArgs = []string{"-f", cfg.path(cfg.WheelsDir), "-f", PrebuiltAppsURL}
		return nil
	}

	cfg.pipArgs, err = shell.Fields(override, os.Getenv)
	if err != nil {
		return eris.Wrapf(err, "failed to parse %s", PipArgsEnv)
	}
	return nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	switch cfg.Check.Files {
	case CheckFilesCombined, CheckFilesTestsOnly:
	default:
		return eris.Errorf(`Invalid value for check.files: %s (must be one of %s or %s)`, cfg.Check.Files,
			CheckFilesCombined, CheckFilesTestsOnly)
	}

	if cfg.Python == "" {
		return eris.New("python must not be empty")
	}

	if cfg.VenvDir == "" {
		return eris.New("venv_dir must not be empty")
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}

// VenvPath returns the location of the isolated environment
func (cfg *Config) VenvPath() string {
	return cfg.path(cfg.VenvDir)
}

// DistPath returns the output directory of the package task
func (cfg *Config) DistPath() string {
	return cfg.path(cfg.DistDir)
}

// PipArgs returns the index location flags passed to each pip install call
func (cfg *Config) PipArgs() []string {
	return append([]string{}, cfg.pipArgs...)
}

func (cfg *Config) path(item string) string {
	if filepath.IsAbs(item) {
		return filepath.Clean(item)
	}
	return filepath.Join(cfg.Root, item)
}
