package cmd

import (
	"golestoon/pkg/tui"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Launch the interactive TUI",
	Long:    `Launch the Text User Interface to search courses, build your timetable, compare combinations and export exams interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		return tui.RunTUI(ws)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
