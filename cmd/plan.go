package cmd

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kingpinzs/mimic3/pkg/devtasks"
)

var planCmd = &cobra.Command{
	Use:   "plan task",
	Short: "Prints the steps of a task as YAML without running them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("develop") {
			develop, err := cmd.Flags().GetBool("develop")
			if err != nil {
				return err
			}
			state.cfg.Develop = develop
		}

		tasks, err := devtasks.Tasks(state.cfg)
		if err != nil {
			return err
		}

		task, ok := tasks[args[0]]
		if !ok {
			return eris.Errorf("Task %s not found", args[0])
		}

		return devtasks.WritePlan(cmd.OutOrStdout(), task)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the available tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := devtasks.Tasks(state.cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available tasks:")
		maxNameLen := 0
		sortedNames := make([]string, 0, len(tasks))
		for name := range tasks {
			if len(name) > maxNameLen {
				maxNameLen = len(name)
			}

			sortedNames = append(sortedNames, name)
		}

		sort.Strings(sortedNames)

		lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
		for _, name := range sortedNames {
			fmt.Fprintf(out, lineFmt, name+":", tasks[name].Desc)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().BoolP("develop", "d", false, "plan the install task with the development requirements")
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(listCmd)
}
