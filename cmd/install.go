package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kingpinzs/mimic3/pkg/devtasks"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Creates the virtual environment and installs mimic3 into it",
	Long: `Deletes the venv directory in the project root, creates a fresh virtual environment
and installs the project in editable mode with all extras. Set PIP_INSTALL_ARGS to replace the
default wheel locations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("develop") {
			develop, err := cmd.Flags().GetBool("develop")
			if err != nil {
				return err
			}
			state.cfg.Develop = develop
		}

		return runTask(devtasks.InstallTask(state.cfg))
	},
}

func init() {
	installCmd.Flags().BoolP("develop", "d", false, "also install the development requirements")
	rootCmd.AddCommand(installCmd)
}
