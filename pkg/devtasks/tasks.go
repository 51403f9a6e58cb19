package devtasks

import (
	"os"

	"github.com/rotisserie/eris"
)

// Task names
const (
	TaskInstall = "install"
	TaskCheck   = "check"
	TaskPackage = "package"
)

func pipInstall(cfg *Config, name string, args ...string) Step {
	stepArgs := append([]string{"install"}, cfg.PipArgs()...)
	return Step{
		Name:      name,
		Exe:       "pip",
		Args:      append(stepArgs, args...),
		Activated: true,
	}
}

// InstallTask recreates the isolated environment and installs the project into it
func InstallTask(cfg *Config) *Task {
	venv := cfg.VenvPath()
	editable := "."
	if cfg.Extras != "" {
		editable = ".[" + cfg.Extras + "]"
	}

	steps := []Step{
		{Name: "remove-venv", Exe: "rm", Args: []string{"-rf", venv}},
		{Name: "create-venv", Exe: cfg.Python, Args: []string{"-m", "venv", venv}},
		pipInstall(cfg, "upgrade-pip", "--upgrade", "pip"),
		pipInstall(cfg, "upgrade-build-tools", "--upgrade", "wheel", "setuptools"),
		pipInstall(cfg, "install-project", "-e", editable),
	}

	if cfg.Develop {
		steps = append(steps, pipInstall(cfg, "install-dev-requirements", "-r", cfg.DevRequirements))
	}

	return &Task{
		Short: TaskInstall,
		Desc:  "Creates the virtual environment and installs the project with its extras",
		Steps: steps,
	}
}

// CheckFiles returns the paths every check tool runs on
func CheckFiles(cfg *Config) ([]string, error) {
	tests, err := ResolvePatterns(cfg.Root, []string{cfg.Check.Tests})
	if err != nil {
		return nil, eris.Wrap(err, "failed to collect test files")
	}

	switch cfg.Check.Files {
	case CheckFilesTestsOnly:
		return tests, nil
	case CheckFilesCombined, "":
		files := make([]string, 0, len(cfg.Check.Modules)+len(tests))
		files = append(files, cfg.Check.Modules...)
		return append(files, tests...), nil
	default:
		return nil, eris.Errorf("unknown file list variant %s", cfg.Check.Files)
	}
}

// CheckTask runs the formatter, the import sorter and every analyzer over the project sources.
// The environment is activated only if it exists.
func CheckTask(cfg *Config) (*Task, error) {
	files, err := CheckFiles(cfg)
	if err != nil {
		return nil, err
	}

	activated := false
	info, err := os.Stat(cfg.VenvPath())
	if err == nil {
		activated = info.IsDir()
	} else if !eris.Is(err, os.ErrNotExist) {
		return nil, eris.Wrapf(err, "failed to check %s", cfg.VenvPath())
	}

	tools := append([]string{cfg.Check.Formatter, cfg.Check.ImportSorter}, cfg.Check.Analyzers...)
	steps := make([]Step, len(tools))
	for idx, tool := range tools {
		steps[idx] = Step{
			Name:      tool,
			Exe:       tool,
			Args:      append([]string{}, files...),
			Activated: activated,
		}
	}

	return &Task{
		Short: TaskCheck,
		Desc:  "Runs the formatter, import sorter and static analyzers",
		Steps: steps,
	}, nil
}

// PackageTask builds a zip source distribution inside the dist directory
func PackageTask(cfg *Config) *Task {
	return &Task{
		Short: TaskPackage,
		Desc:  "Builds a zip source distribution",
		Steps: []Step{
			{Name: "create-dist", Exe: "mkdir", Args: []string{"-p", cfg.DistPath()}},
			{
				Name: "sdist",
				Exe:  cfg.Python,
				Args: []string{"setup.py", "sdist", "--formats=zip", "--dist-dir", cfg.DistPath()},
			},
		},
	}
}

// Tasks returns every task for the passed config
func Tasks(cfg *Config) (TaskList, error) {
	check, err := CheckTask(cfg)
	if err != nil {
		return nil, err
	}

	return TaskList{
		TaskInstall: InstallTask(cfg),
		TaskCheck:   check,
		TaskPackage: PackageTask(cfg),
	}, nil
}
