package devtasks

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// KillTimeout is how long a cancelled child gets after SIGINT before it is killed
const KillTimeout = 2 * time.Second

// Executor runs a single command line to completion
type Executor interface {
	Exec(ctx context.Context, dir string, env []string, argv []string) error
}

// ShellExecutor runs commands through the mvdan.cc/sh interpreter. rm and mkdir are handled
// in-process, everything else is looked up in the PATH of the passed environment.
type ShellExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellExecutor returns an executor attached to the process' standard streams
func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

var defaultOpenHandler = interp.DefaultOpenHandler()

func openHandler(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if path == "/dev/null" {
		path = os.DevNull
	}

	return defaultOpenHandler(ctx, path, flag, perm)
}

// callExpr turns argv into a command node. Every argument is a single-quoted word so the
// interpreter passes it through verbatim without expanding variables or globs.
func callExpr(argv []string) *syntax.CallExpr {
	cmd := new(syntax.CallExpr)
	cmd.Args = make([]*syntax.Word, len(argv))
	for a, arg := range argv {
		node := new(syntax.SglQuoted)
		node.Value = arg

		cmd.Args[a] = new(syntax.Word)
		cmd.Args[a].Parts = []syntax.WordPart{node}
	}

	return cmd
}

// Exec implements Executor
func (e *ShellExecutor) Exec(ctx context.Context, dir string, env []string, argv []string) error {
	if len(argv) == 0 {
		return eris.New("empty command")
	}

	stdout, stderr := e.Stdout, e.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.ExecHandler(execHandler(interp.DefaultExecHandler(KillTimeout))),
		interp.OpenHandler(openHandler),
		interp.StdIO(e.Stdin, stdout, stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return eris.Wrap(err, "Failed to initialize runner")
	}

	return runner.Run(ctx, &syntax.Stmt{Cmd: callExpr(argv)})
}

// Runner executes tasks step by step
type Runner struct {
	Config *Config
	Exec   Executor
	DryRun bool
	// Environ returns the base environment for each step; defaults to os.Environ
	Environ func() []string
}

// NewRunner returns a Runner that executes steps through a ShellExecutor
func NewRunner(cfg *Config) *Runner {
	return &Runner{
		Config: cfg,
		Exec:   NewShellExecutor(),
		DryRun: cfg.DryRun,
	}
}

// Run executes the steps of task in their declared order. The first failing step aborts the task
// and is reported as a *StepError carrying that step's exit code.
func (r *Runner) Run(ctx context.Context, task *Task) error {
	environ := r.Environ
	if environ == nil {
		environ = os.Environ
	}

	for idx, step := range task.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		log(ctx).Info().
			Str("task", task.Short).
			Str("step", step.Name).
			Bool("command", true).
			Msg(step.String())

		if r.DryRun {
			continue
		}

		err := r.Exec.Exec(ctx, r.Config.Root, StepEnv(r.Config, step, environ()), step.Argv())
		if err != nil {
			stepErr := &StepError{
				Task:  task.Short,
				Step:  step.Name,
				Index: idx,
			}

			if status, ok := interp.IsExitStatus(err); ok {
				stepErr.Code = int(status)
			} else {
				stepErr.Code = 1
				stepErr.Err = err
			}

			return stepErr
		}
	}

	log(ctx).Debug().Str("task", task.Short).Msgf("finished %d steps", len(task.Steps))
	return nil
}
