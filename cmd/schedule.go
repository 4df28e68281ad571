package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"golestoon/pkg/course"
	"golestoon/pkg/planner"
	"golestoon/pkg/timetable"
	"golestoon/pkg/workspace"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "View and edit your weekly timetable",
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the weekly timetable grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		english, _ := cmd.Flags().GetBool("english")
		width, _ := cmd.Flags().GetInt("width")
		s := ws.Schedule()
		if len(s.Courses) == 0 {
			warn("Your schedule is empty. Add courses with `golestoon schedule add <key>`.")
			return nil
		}
		fmt.Println(timetable.Render(timetable.Build(s.Courses, ws.Catalog), timetable.Options{
			CellWidth: width,
			English:   english,
			Accent:    ws.Config.AccentColor,
		}))
		fmt.Println(timetable.Legend(s.Courses, ws.Catalog))
		printStats(s.Stats())
		printConflicts(s.Conflicts(), ws.Catalog)
		return nil
	},
}

func printStats(st planner.Stats) {
	fmt.Printf("%d courses, %d credits, %d sessions on %d days, %.1f idle hours, %d instructors\n",
		st.Courses, st.Credits, st.Sessions, st.Days, st.IdleHours, len(st.Instructors))
}

func printConflicts(conflicts []course.Conflict, catalog course.Catalog) {
	for _, c := range conflicts {
		parts := make([]string, 0, len(c.Sessions))
		for _, p := range c.Sessions {
			parts = append(parts, p[0].String()+" / "+p[1].String())
		}
		fmt.Println(errorStyle.Render(fmt.Sprintf("Conflict: %s (%s) and %s (%s) at %s",
			catalog[c.A].Name, c.A, catalog[c.B].Name, c.B, strings.Join(parts, ", "))))
	}
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add <key>...",
	Short: "Place courses on the timetable",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		replace, _ := cmd.Flags().GetBool("replace")
		s := ws.Schedule()
		var failed error
		for _, ref := range args {
			if err := addToSchedule(ws, s, ref, replace); err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
				failed = errors.New("some courses could not be added")
			}
		}
		if err := ws.Commit(s); err != nil {
			return err
		}
		return failed
	},
}

func addToSchedule(ws *workspace.Workspace, s *planner.Schedule, ref string, replace bool) error {
	key, c, err := ws.Resolve(ref)
	if err != nil {
		return err
	}
	removed, err := s.Add(key, planner.Options{Replace: replace})
	var ce *planner.ConflictError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w (use --replace to swap them out)", err)
	}
	if err != nil {
		return err
	}
	for _, k := range removed {
		warn("Removed %s (%s) to make room", ws.Catalog[k].Name, k)
	}
	success("Added %s (%s)", c.Name, key)
	ws.Log.Info().Str("course", key).Strs("replaced", removed).Msg("course placed")
	return nil
}

var scheduleRemoveCmd = &cobra.Command{
	Use:     "remove <key>...",
	Aliases: []string{"rm"},
	Short:   "Take courses off the timetable",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		s := ws.Schedule()
		for _, ref := range args {
			key := ref
			if k, _, err := ws.Resolve(ref); err == nil {
				key = k
			}
			if s.Remove(key) {
				success("Removed %s", key)
			} else {
				warn("%s is not on the schedule", ref)
			}
		}
		return ws.Commit(s)
	},
}

var scheduleClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every course from the timetable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		s := ws.Schedule()
		n := len(s.Courses)
		s.Clear()
		if err := ws.Commit(s); err != nil {
			return err
		}
		success("Cleared %d courses", n)
		return nil
	},
}

var scheduleConflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "List clashes among the placed courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		conflicts := ws.Schedule().Conflicts()
		if len(conflicts) == 0 {
			success("No conflicts")
			return nil
		}
		printConflicts(conflicts, ws.Catalog)
		return nil
	},
}

var schedulePriorityCmd = &cobra.Command{
	Use:   "priority",
	Short: "Show or change the course priority list",
	Long: `Without arguments the priority list is printed, highest priority first.
Courses ranked higher cannot be displaced by lower ranked ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		s := ws.Schedule()
		if len(s.Priority) == 0 {
			warn("The priority list is empty")
			return nil
		}
		for i, k := range s.Priority {
			fmt.Printf("%2d. %s  %s\n", i+1, k, ws.Catalog[k].Name)
		}
		return nil
	},
}

var schedulePrioritySetCmd = &cobra.Command{
	Use:   "set <key>...",
	Short: "Replace the priority list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(args))
		for _, ref := range args {
			k, _, err := ws.Resolve(ref)
			if err != nil {
				return err
			}
			keys = append(keys, k)
		}
		s := ws.Schedule()
		if err := s.SetPriority(keys); err != nil {
			return err
		}
		if err := ws.Commit(s); err != nil {
			return err
		}
		success("Priority list has %d courses", len(s.Priority))
		return nil
	},
}

var schedulePriorityMoveCmd = &cobra.Command{
	Use:   "move <key> <position>",
	Short: "Move a course to a position (1 is highest)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		key, _, err := ws.Resolve(args[0])
		if err != nil {
			return err
		}
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("position must be a number: %w", err)
		}
		s := ws.Schedule()
		if err := s.MovePriority(key, pos-1); err != nil {
			return err
		}
		if err := ws.Commit(s); err != nil {
			return err
		}
		success("%s is now priority %d", key, s.Rank(key)+1)
		return nil
	},
}

var schedulePriorityDropCmd = &cobra.Command{
	Use:   "drop <key>",
	Short: "Remove a course from the priority list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		s := ws.Schedule()
		if !s.DropPriority(args[0]) {
			return fmt.Errorf("%s is not on the priority list", args[0])
		}
		return ws.Commit(s)
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleShowCmd, scheduleAddCmd, scheduleRemoveCmd, scheduleClearCmd, scheduleConflictsCmd, schedulePriorityCmd)
	schedulePriorityCmd.AddCommand(schedulePrioritySetCmd, schedulePriorityMoveCmd, schedulePriorityDropCmd)

	scheduleShowCmd.Flags().BoolP("english", "e", false, "English day names")
	scheduleShowCmd.Flags().IntP("width", "w", 0, "Column width")
	scheduleAddCmd.Flags().BoolP("replace", "r", false, "Replace conflicting courses of equal or lower priority")
}
