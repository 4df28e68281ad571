package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"golestoon/pkg/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current schedule",
}

var exportICSCmd = &cobra.Command{
	Use:   "ics",
	Short: "Export the weekly classes to an ICS calendar file",
	Long: `Export every session of the current schedule as a weekly recurring
event. Even and odd week sessions repeat every other week.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		startStr, _ := cmd.Flags().GetString("start")
		weeks, _ := cmd.Flags().GetInt("weeks")

		if !strings.HasSuffix(output, ".ics") {
			output += ".ics"
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		start, cfgWeeks, err := ws.Config.Semester()
		if err != nil {
			return err
		}
		if startStr != "" {
			if start, err = time.ParseInLocation("2006-01-02", startStr, time.Local); err != nil {
				return fmt.Errorf("--start must be YYYY-MM-DD: %w", err)
			}
		}
		if start.IsZero() {
			start = time.Now()
		}
		if weeks <= 0 {
			weeks = cfgWeeks
		}

		courses, err := ws.Catalog.Lookup(ws.Schedule().Courses)
		if err != nil {
			return err
		}
		if len(courses) == 0 {
			return fmt.Errorf("your schedule is empty")
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		if err := exporter.GenerateICS(courses, start, weeks, file); err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("Successfully exported %d courses (%d weeks from %s) to %s\n", len(courses), weeks, start.Format("2006-01-02"), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportICSCmd)

	exportICSCmd.Flags().StringP("output", "o", "schedule.ics", "Output file path")
	exportICSCmd.Flags().String("start", "", "First day of the semester, YYYY-MM-DD (default from config, else today)")
	exportICSCmd.Flags().Int("weeks", 0, "Semester length in weeks (default from config, else 16)")
}
