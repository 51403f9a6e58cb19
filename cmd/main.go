package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kingpinzs/mimic3/pkg/devtasks"
)

var rootCmd = &cobra.Command{
	Use:   "devtasks",
	Short: "Development tasks for mimic3",
	Long: `This command bundles the maintenance tasks of the mimic3 Python project.
It creates the virtual environment, runs the code checks and builds source distributions.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

type cmdState struct {
	cfg    *devtasks.Config
	ctx    context.Context
	logger zerolog.Logger
}

// state is populated by setup() before any subcommand runs
var state cmdState

// logOutput receives all log messages
var logOutput io.Writer = os.Stderr

func setup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	root, err := flags.GetString("root")
	if err != nil {
		return err
	}

	cfg, err := devtasks.LoadConfig(root)
	if err != nil {
		return err
	}

	if flags.Changed("dry") {
		cfg.DryRun, err = flags.GetBool("dry")
		if err != nil {
			return err
		}
	}

	if flags.Changed("log-level") {
		cfg.Log.Level, err = flags.GetString("log-level")
		if err != nil {
			return err
		}
	}

	if flags.Changed("log-json") {
		cfg.Log.JSON, err = flags.GetBool("log-json")
		if err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	state.cfg = cfg
	state.logger = newLogger(logOutput, cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	state.ctx = devtasks.WithLogger(ctx, &state.logger)
	return nil
}

func newLogger(out io.Writer, cfg *devtasks.Config) zerolog.Logger {
	debug := cfg.Debug
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, debug)
	}

	var logger zerolog.Logger
	if cfg.Log.JSON {
		logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(NewConsoleWriter(out, debug))
	}

	return logger.Level(cfg.LogLevel()).With().Str("run", nanoid.New()).Logger()
}

// runTask executes task and reports the outcome
func runTask(task *devtasks.Task) error {
	runner := devtasks.NewRunner(state.cfg)
	if err := runner.Run(state.ctx, task); err != nil {
		return err
	}

	if !state.cfg.DryRun {
		state.logger.Info().Str("task", task.Short).Msg("done")
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("root", "", "project root (defaults to the closest parent directory containing setup.py)")
	flags.BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-json", false, "output JSON lines instead of pretty console messages")
}

// exitCode maps an error returned by a command to the process exit status
func exitCode(err error) int {
	var stepErr *devtasks.StepError
	if errors.As(err, &stepErr) {
		return stepErr.ExitCode()
	}
	return 1
}

// Execute runs the root command and exits with the failing step's exit code. An interrupt cancels
// the running step.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	if state.cfg != nil {
		state.logger.Error().Err(err).Msg("task failed")
	} else {
		fmt.Fprintln(logOutput, "Error:", err)
	}
	os.Exit(exitCode(err))
}
