package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"golestoon/pkg/course"
	"golestoon/pkg/exporter"
)

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Exam timetable of the current schedule",
}

var examShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the exam timetable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		keys := ws.Schedule().Courses
		if len(keys) == 0 {
			warn("Your schedule is empty")
			return nil
		}
		rep := exporter.BuildExamReport(keys, ws.Catalog, time.Now())
		return exporter.WriteExams(exporter.TXT, rep, os.Stdout)
	},
}

var examExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the exam timetable to a csv, html or txt file",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		f, err := exporter.ParseFormat(format)
		if err != nil {
			return err
		}
		if f == exporter.ICS {
			return fmt.Errorf("use `golestoon export ics` for calendar files")
		}
		if output == "" {
			output = "exam_schedule" + f.Extension()
		} else if !strings.HasSuffix(strings.ToLower(output), f.Extension()) {
			output += f.Extension()
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		keys := ws.Schedule().Courses
		if len(keys) == 0 {
			return fmt.Errorf("your schedule is empty")
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		rep := exporter.BuildExamReport(keys, ws.Catalog, time.Now())
		if err := exporter.WriteExams(f, rep, file); err != nil {
			return fmt.Errorf("failed to write exams: %w", err)
		}
		ws.Log.Info().Str("format", string(f)).Str("file", output).Int("rows", len(rep.Rows)).Msg("exam schedule exported")
		success("Exported %d exams to %s", len(rep.Rows), output)
		return nil
	},
}

var examConflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "List courses whose exams overlap",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		conflicts := course.ExamConflicts(ws.Schedule().Courses, ws.Catalog)
		if len(conflicts) == 0 {
			success("No exam conflicts")
			return nil
		}
		for _, c := range conflicts {
			fmt.Println(errorStyle.Render(fmt.Sprintf("%s and %s both sit on %s",
				ws.Catalog[c.A].Name, ws.Catalog[c.B].Name, c.Slot.Pretty())))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(examCmd)
	examCmd.AddCommand(examShowCmd, examExportCmd, examConflictsCmd)

	examExportCmd.Flags().StringP("format", "f", "html", "Output format: csv, html or txt")
	examExportCmd.Flags().StringP("output", "o", "", "Output file path")
}
