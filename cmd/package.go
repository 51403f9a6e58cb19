package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kingpinzs/mimic3/pkg/devtasks"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Builds a zip source distribution in the dist directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(devtasks.PackageTask(state.cfg))
	},
}

func init() {
	rootCmd.AddCommand(packageCmd)
}
