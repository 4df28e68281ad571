package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"golestoon/pkg/course"
	"golestoon/pkg/workspace"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Browse the catalogue and manage custom courses",
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogue courses, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCourseSearch(cmd, "")
	},
}

var courseSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search courses by name, code or instructor",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCourseSearch(cmd, strings.Join(args, " "))
	},
}

func searchFilter(cmd *cobra.Command) (course.Filter, error) {
	f := course.Filter{}
	f.Major, _ = cmd.Flags().GetString("major")
	f.AvailableOnly, _ = cmd.Flags().GetBool("available")
	f.CustomOnly, _ = cmd.Flags().GetBool("custom")
	f.GeneralOnly, _ = cmd.Flags().GetBool("general")
	f.Gender, _ = cmd.Flags().GetString("gender")

	if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
		from, _ := cmd.Flags().GetInt("from")
		to, _ := cmd.Flags().GetInt("to")
		if from > to {
			from, to = to, from
		}
		f.FromHour, f.ToHour = &from, &to
	}
	if day, _ := cmd.Flags().GetString("day"); day != "" {
		d, err := course.ParseDay(day)
		if err != nil {
			return f, err
		}
		f.Day = &d
	}
	return f, nil
}

func runCourseSearch(cmd *cobra.Command, query string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	if len(ws.Catalog) == 0 {
		warn("The catalogue is empty. Run `golestoon sync` or add a custom course first.")
		return nil
	}
	f, err := searchFilter(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("major") {
		f.Major = ws.Config.DefaultMajor
	}

	results := ws.Catalog.Search(query, f)
	limit, _ := cmd.Flags().GetInt("limit")
	total := len(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	keys := make([]string, len(results))
	for i, r := range results {
		keys[i] = r.Key
	}
	writeCourseTable(os.Stdout, keys, ws.Catalog)
	dimColor.Printf("%d of %d matching courses shown (* = custom)\n", len(keys), total)
	return nil
}

var courseShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show every detail of a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		key, c, err := ws.Resolve(args[0])
		if err != nil {
			return err
		}
		printCourse(ws, key, c)
		return nil
	},
}

func printCourse(ws *workspace.Workspace, key string, c course.Course) {
	heading(fmt.Sprintf("%s  (%s)", c.Name, key))
	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Printf("%-13s %s\n", label+":", value)
	}
	row("Code", c.Code)
	row("Credits", fmt.Sprint(c.Credits))
	row("Instructor", c.Instructor)
	for _, s := range c.Schedule {
		row("Session", s.String())
	}
	row("Location", c.PrimaryLocation())
	if slot, ok := course.ParseExamTime(c.ExamTime); ok {
		row("Exam", slot.Pretty())
	} else {
		row("Exam", c.ExamTime)
	}
	row("Capacity", c.Capacity)
	row("Gender", c.GenderRestriction)
	row("Conditions", c.EnrollmentConditions)
	row("Major", c.Major)
	row("Description", c.Description)
	row("Available", yesNo(c.IsAvailable))
	if c.Custom {
		row("Custom", "yes")
	}
	if ws.Schedule().Contains(key) {
		okColor.Println("On your current schedule")
	}
}

// courseFromFlags applies the changed course flags to c.
func courseFromFlags(cmd *cobra.Command, c *course.Course) error {
	fl := cmd.Flags()
	if fl.Changed("code") {
		c.Code, _ = fl.GetString("code")
	}
	if fl.Changed("name") {
		c.Name, _ = fl.GetString("name")
	}
	if fl.Changed("credits") {
		c.Credits, _ = fl.GetInt("credits")
	}
	if fl.Changed("instructor") {
		c.Instructor, _ = fl.GetString("instructor")
	}
	if fl.Changed("location") {
		c.Location, _ = fl.GetString("location")
	}
	if fl.Changed("exam") {
		c.ExamTime, _ = fl.GetString("exam")
	}
	if fl.Changed("description") {
		c.Description, _ = fl.GetString("description")
	}
	if fl.Changed("session") {
		raw, _ := fl.GetStringArray("session")
		sessions := make([]course.Session, 0, len(raw))
		for _, r := range raw {
			s, err := course.ParseSession(r)
			if err != nil {
				return err
			}
			sessions = append(sessions, s)
		}
		c.Schedule = sessions
	}
	return nil
}

var courseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom course",
	Example: `  golestoon course add --code 9990 --name "Reading group" --credits 0 \
    --session "monday 14:00-16:00 even @Library"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		c := course.Course{IsAvailable: true}
		if err := courseFromFlags(cmd, &c); err != nil {
			return err
		}
		key, err := ws.Data.AddCustomCourse(c, ws.Catalog)
		if err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		success("Added custom course %s as %s", c.Name, key)
		return nil
	},
}

var courseEditCmd = &cobra.Command{
	Use:   "edit <key>",
	Short: "Change fields of a custom course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		c, ok := ws.Data.CustomCourses[args[0]]
		if !ok {
			return fmt.Errorf("%s is not a custom course", args[0])
		}
		if err := courseFromFlags(cmd, &c); err != nil {
			return err
		}
		if err := ws.Data.UpdateCustomCourse(args[0], c); err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		success("Updated %s", args[0])
		return nil
	},
}

var courseRemoveCmd = &cobra.Command{
	Use:     "remove <key>",
	Aliases: []string{"rm"},
	Short:   "Delete a custom course and every reference to it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		if err := ws.Data.RemoveCustomCourse(args[0]); err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		success("Removed %s", args[0])
		return nil
	},
}

func addCourseFlags(cmd *cobra.Command) {
	cmd.Flags().String("code", "", "Course code")
	cmd.Flags().String("name", "", "Course name")
	cmd.Flags().Int("credits", 0, "Credits")
	cmd.Flags().String("instructor", "", "Instructor")
	cmd.Flags().String("location", "", "Default location")
	cmd.Flags().String("exam", "", "Exam time, e.g. \"1404/10/05 08:00-10:00\"")
	cmd.Flags().String("description", "", "Free text description")
	cmd.Flags().StringArray("session", nil, "Session as \"DAY HH:MM-HH:MM [even|odd] [@location]\" (repeatable)")
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("major", "", "Only courses of this major (\"faculty - department\")")
	cmd.Flags().Bool("available", false, "Only courses open for registration")
	cmd.Flags().Bool("custom", false, "Only custom courses")
	cmd.Flags().Bool("general", false, "Only general courses")
	cmd.Flags().String("gender", "", "Gender restriction (male, female, mixed)")
	cmd.Flags().String("day", "", "Only courses meeting on this day")
	cmd.Flags().Int("from", course.FirstHour, "Earliest start hour")
	cmd.Flags().Int("to", course.LastHour, "Latest end hour")
	cmd.Flags().IntP("limit", "n", 50, "Maximum rows to print (0 = all)")
}

func init() {
	rootCmd.AddCommand(courseCmd)
	courseCmd.AddCommand(courseListCmd, courseSearchCmd, courseShowCmd, courseAddCmd, courseEditCmd, courseRemoveCmd)

	addSearchFlags(courseListCmd)
	addSearchFlags(courseSearchCmd)
	addCourseFlags(courseAddCmd)
	addCourseFlags(courseEditCmd)
	courseAddCmd.MarkFlagRequired("code")
	courseAddCmd.MarkFlagRequired("name")
}
