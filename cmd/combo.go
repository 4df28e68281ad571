package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"golestoon/pkg/course"
	"golestoon/pkg/planner"
	"golestoon/pkg/workspace"
)

var comboCmd = &cobra.Command{
	Use:   "combo",
	Short: "Generate and manage schedule combinations",
}

func namesOf(keys []string, catalog course.Catalog) string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, catalog[k].Name+" ("+k+")")
	}
	return strings.Join(names, "، ")
}

// applyKeys replaces the current timetable with keys and optionally saves
// them as a named combination.
func applyKeys(cmd *cobra.Command, ws *workspace.Workspace, keys []string) error {
	apply, _ := cmd.Flags().GetBool("apply")
	name, _ := cmd.Flags().GetString("save")
	if name != "" {
		combo, err := ws.Data.SaveCombination(name, keys, ws.Catalog, false)
		if err != nil {
			return err
		}
		success("Saved combination %q (%s)", combo.Name, combo.ID)
	}
	if apply {
		ws.Data.CurrentSchedule = keys
		success("Schedule replaced with %d courses", len(keys))
	}
	if apply || name != "" {
		return ws.Save()
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var comboGenerateCmd = &cobra.Command{
	Use:   "generate <course-code>...",
	Short: "Rank every conflict-free pick of one section per course",
	Long: `Each argument is a base course code (or part of a course name). One
section is picked for each and the conflict-free picks are ranked by days
on campus, then idle hours between classes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		combos := planner.BestCombinations(args, ws.Catalog, limit)
		if len(combos) == 0 {
			for _, g := range args {
				if len(planner.Candidates(g, ws.Catalog)) == 0 {
					return fmt.Errorf("no sections found for %s", g)
				}
			}
			return fmt.Errorf("every combination of %s has a conflict", strings.Join(args, ", "))
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"#", "Days", "Idle h", "Courses"})
		table.SetAutoWrapText(false)
		table.SetAutoFormatHeaders(false)
		for i, c := range combos {
			table.Append([]string{strconv.Itoa(i + 1), strconv.Itoa(c.Days), fmt.Sprintf("%.1f", c.Idle), strings.Join(c.Courses, ", ")})
		}
		table.Render()

		pick, _ := cmd.Flags().GetInt("pick")
		if pick < 1 || pick > len(combos) {
			return fmt.Errorf("--pick must be between 1 and %d", len(combos))
		}
		return applyKeys(cmd, ws, combos[pick-1].Courses)
	},
}

var comboGreedyCmd = &cobra.Command{
	Use:   "greedy [key]...",
	Short: "Build schedules that respect your priority list",
	Long: `Courses are added highest priority first, skipping any that clash.
Alternatives that leave out low priority courses are listed as well.
Without arguments the saved priority list is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		ordered := ws.Data.PriorityList
		if len(args) > 0 {
			ordered = nil
			for _, ref := range args {
				k, _, err := ws.Resolve(ref)
				if err != nil {
					return err
				}
				ordered = append(ordered, k)
			}
		}
		if len(ordered) == 0 {
			return fmt.Errorf("the priority list is empty; set it with `golestoon schedule priority set`")
		}

		alts := planner.PriorityAlternatives(ordered, ws.Catalog)
		if len(alts) == 0 {
			return fmt.Errorf("none of the prioritised courses could be placed")
		}
		for i, a := range alts {
			heading(fmt.Sprintf("%d. %s (score %d, %d days, %.1f idle hours)", i+1, a.Method, a.Score, a.Days, a.Idle))
			fmt.Println("   " + namesOf(a.Courses, ws.Catalog))
			if len(a.Skipped) > 0 {
				dimColor.Printf("   left out: %s\n", strings.Join(a.Skipped, ", "))
			}
		}

		pick, _ := cmd.Flags().GetInt("pick")
		if pick < 1 || pick > len(alts) {
			return fmt.Errorf("--pick must be between 1 and %d", len(alts))
		}
		return applyKeys(cmd, ws, alts[pick-1].Courses)
	},
}

var comboSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current schedule as a combination",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		keys := ws.Schedule().Courses
		if len(keys) == 0 {
			return fmt.Errorf("the current schedule is empty")
		}
		replace, _ := cmd.Flags().GetBool("replace")
		combo, err := ws.Data.SaveCombination(args[0], keys, ws.Catalog, replace)
		if err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		success("Saved %q with %d courses", combo.Name, len(combo.Courses))
		return nil
	},
}

var comboListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved combinations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		if len(ws.Data.SavedCombos) == 0 {
			warn("No saved combinations")
			return nil
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "ID", "Courses", "Days", "Idle h", "Created"})
		table.SetAutoFormatHeaders(false)
		for _, c := range ws.Data.SavedCombos {
			table.Append([]string{c.Name, shortID(c.ID), strconv.Itoa(len(c.Courses)), strconv.Itoa(c.Days),
				fmt.Sprintf("%.1f", c.Idle), c.CreatedAt.Format("2006-01-02 15:04")})
		}
		table.Render()
		return nil
	},
}

var comboLoadCmd = &cobra.Command{
	Use:   "load <name-or-id>",
	Short: "Replace the current schedule with a saved combination",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		combo, err := ws.Data.FindCombination(args[0])
		if err != nil {
			return err
		}
		var keys, missing []string
		for _, k := range combo.Courses {
			if _, ok := ws.Catalog[k]; ok {
				keys = append(keys, k)
			} else {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			warn("No longer in the catalogue: %s", strings.Join(missing, ", "))
		}
		ws.Data.CurrentSchedule = keys
		if err := ws.Save(); err != nil {
			return err
		}
		success("Loaded %q (%d courses)", combo.Name, len(keys))
		return nil
	},
}

var comboDeleteCmd = &cobra.Command{
	Use:     "delete <name-or-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a saved combination",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		combo, err := ws.Data.DeleteCombination(args[0])
		if err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		success("Deleted %q", combo.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(comboCmd)
	comboCmd.AddCommand(comboGenerateCmd, comboGreedyCmd, comboSaveCmd, comboListCmd, comboLoadCmd, comboDeleteCmd)

	for _, c := range []*cobra.Command{comboGenerateCmd, comboGreedyCmd} {
		c.Flags().Bool("apply", false, "Replace the current schedule with the picked result")
		c.Flags().String("save", "", "Save the picked result under this name")
		c.Flags().Int("pick", 1, "Which result --apply and --save use")
	}
	comboGenerateCmd.Flags().IntP("limit", "n", 10, "Maximum combinations to list (0 = all)")
	comboSaveCmd.Flags().Bool("replace", false, "Overwrite a combination with the same name")
}
