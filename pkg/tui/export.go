package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golestoon/pkg/exporter"
	"golestoon/pkg/workspace"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// RunExportTUI exports the current schedule's exams or weekly calendar.
func RunExportTUI(ws *workspace.Workspace) error {
	s := ws.Schedule()
	if len(s.Courses) == 0 {
		fmt.Println(errorStyle.Render("Your schedule is empty!"))
		return nil
	}

	var selected []string
	var format string
	var outputFile string

	options := make([]huh.Option[string], 0, len(s.Courses))
	for _, k := range s.Courses {
		options = append(options, huh.NewOption(ws.Catalog[k].Name, k).Selected(true))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select courses to export").
				Description("Space = toggle, Enter = confirm").
				Options(options...).
				Value(&selected).
				Height(10),
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("Exam timetable (HTML)", string(exporter.HTML)),
					huh.NewOption("Exam timetable (CSV, opens in Excel)", string(exporter.CSV)),
					huh.NewOption("Exam timetable (plain text)", string(exporter.TXT)),
					huh.NewOption("Weekly classes calendar (ICS)", string(exporter.ICS)),
				).
				Value(&format),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Output file name").
				Value(&outputFile).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("file name cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	// Defaults
	outputFile = "exam_schedule"

	if err := form.Run(); err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Println(errorStyle.Render("No courses selected!"))
		return nil
	}

	f, err := exporter.ParseFormat(format)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(outputFile, f.Extension()) {
		outputFile += f.Extension()
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	_ = spinner.New().
		Title(fmt.Sprintf("Writing %s...", outputFile)).
		Action(func() {
			err = writeExport(ws, f, selected, file)
		}).
		Run()
	if err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Successfully exported %d courses to %s\n", len(selected), outputFile)))
	return nil
}

func writeExport(ws *workspace.Workspace, f exporter.Format, keys []string, file *os.File) error {
	if f != exporter.ICS {
		return exporter.WriteExams(f, exporter.BuildExamReport(keys, ws.Catalog, time.Now()), file)
	}
	start, weeks, err := ws.Config.Semester()
	if err != nil {
		return err
	}
	if start.IsZero() {
		start = time.Now()
	}
	courses, err := ws.Catalog.Lookup(keys)
	if err != nil {
		return err
	}
	return exporter.GenerateICS(courses, start, weeks, file)
}
