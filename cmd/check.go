package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kingpinzs/mimic3/pkg/devtasks"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Runs the formatter, import sorter and static analyzers",
	Long: `Runs black, isort, flake8, pylint and mypy (in that order) over the mimic3 modules and
the test files. The virtual environment is used if it exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := devtasks.CheckTask(state.cfg)
		if err != nil {
			return err
		}

		return runTask(task)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
