package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golestoon/pkg/course"
	"golestoon/pkg/planner"
	"golestoon/pkg/timetable"
	"golestoon/pkg/workspace"

	"github.com/charmbracelet/huh"
)

// maxOptions caps how many search hits are offered at once.
const maxOptions = 300

// courseLabel is the one-line description used in select lists.
func courseLabel(key string, c course.Course) string {
	var parts []string
	for _, s := range c.Schedule {
		parts = append(parts, s.String())
	}
	sessions := strings.Join(parts, "، ")
	if sessions == "" {
		sessions = "no sessions"
	}
	label := fmt.Sprintf("%s [%s] %s · %s", c.Name, key, c.Instructor, sessions)
	if !c.IsAvailable {
		label += " (closed)"
	}
	return label
}

func showTimetable(ws *workspace.Workspace) {
	s := ws.Schedule()
	if len(s.Courses) == 0 {
		fmt.Println(dimStyle.Render("Your schedule is empty. Use Search and Add Courses first."))
		return
	}
	fmt.Println(timetable.Render(timetable.Build(s.Courses, ws.Catalog), timetable.Options{Accent: ws.Config.AccentColor}))
	fmt.Println(timetable.Legend(s.Courses, ws.Catalog))
	st := s.Stats()
	fmt.Println(accentStyle.Render(fmt.Sprintf("%d courses · %d credits · %d days · %.1f idle hours", st.Courses, st.Credits, st.Days, st.IdleHours)))
	for _, c := range s.Conflicts() {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Conflict: %s and %s", ws.Catalog[c.A].Name, ws.Catalog[c.B].Name)))
	}
	fmt.Println()
}

// RunSearchTUI searches the catalogue and adds the picked courses to the schedule.
func RunSearchTUI(ws *workspace.Workspace) error {
	if len(ws.Catalog) == 0 {
		fmt.Println(errorStyle.Render("The catalogue is empty. Sync it first or add custom courses with `golestoon course add`."))
		return nil
	}

	var query, dayName string
	onlyOpen := true
	dayOptions := []huh.Option[string]{huh.NewOption("Any day", "")}
	for _, d := range course.Days {
		dayOptions = append(dayOptions, huh.NewOption(d.English()+" "+d.String(), d.English()))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search courses").
				Description("Name, code or instructor. Leave empty to browse everything.").
				Value(&query),
			huh.NewSelect[string]().
				Title("Meeting on").
				Options(dayOptions...).
				Value(&dayName),
			huh.NewConfirm().
				Title("Only courses open for registration?").
				Value(&onlyOpen),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	filter := course.Filter{AvailableOnly: onlyOpen, Major: ws.Config.DefaultMajor}
	if dayName != "" {
		d, err := course.ParseDay(dayName)
		if err != nil {
			return err
		}
		filter.Day = &d
	}
	results := ws.Catalog.Search(query, filter)
	if len(results) == 0 {
		fmt.Println(errorStyle.Render("No courses matched."))
		return nil
	}
	if len(results) > maxOptions {
		fmt.Println(dimStyle.Render(fmt.Sprintf("Showing the first %d of %d matches.", maxOptions, len(results))))
		results = results[:maxOptions]
	}

	s := ws.Schedule()
	options := make([]huh.Option[string], 0, len(results))
	for _, r := range results {
		options = append(options, huh.NewOption(courseLabel(r.Key, r.Course), r.Key).Selected(s.Contains(r.Key)))
	}

	var picked []string
	pickForm := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select courses to place on your timetable").
				Description("Space = toggle, Enter = confirm. Start typing to filter.").
				Options(options...).
				Value(&picked).
				Filterable(true).
				Height(14),
		),
	).WithTheme(GetTheme())

	if err := pickForm.Run(); err != nil {
		return err
	}

	added := 0
	for _, key := range picked {
		if s.Contains(key) {
			continue
		}
		ok, err := placeCourse(ws, s, key)
		if err != nil {
			return err
		}
		if ok {
			added++
		}
	}
	if err := ws.Commit(s); err != nil {
		return err
	}
	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Added %d courses.\n", added)))
	return nil
}

// placeCourse adds key, asking before it replaces conflicting courses.
func placeCourse(ws *workspace.Workspace, s *planner.Schedule, key string) (bool, error) {
	_, err := s.Add(key, planner.Options{})
	var ce *planner.ConflictError
	var pe *planner.PriorityConflictError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &pe):
		fmt.Println(errorStyle.Render(fmt.Sprintf("%s clashes with higher priority %s, skipped.", ws.Catalog[key].Name, strings.Join(pe.Blocked, ", "))))
		return false, nil
	case errors.As(err, &ce):
		names := make([]string, 0, len(ce.With))
		for _, k := range ce.With {
			names = append(names, ws.Catalog[k].Name)
		}
		replace := false
		confirm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("%s clashes with %s", ws.Catalog[key].Name, strings.Join(names, ", "))).
					Description("Replace the conflicting courses?").
					Value(&replace),
			),
		).WithTheme(GetTheme())
		if err := confirm.Run(); err != nil {
			return false, err
		}
		if !replace {
			return false, nil
		}
		if _, err := s.Add(key, planner.Options{Replace: true}); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func runRemoveTUI(ws *workspace.Workspace) error {
	s := ws.Schedule()
	if len(s.Courses) == 0 {
		fmt.Println(dimStyle.Render("Your schedule is empty."))
		return nil
	}
	options := make([]huh.Option[string], 0, len(s.Courses))
	for _, k := range s.Courses {
		options = append(options, huh.NewOption(courseLabel(k, ws.Catalog[k]), k))
	}

	var picked []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select courses to remove").
				Options(options...).
				Value(&picked),
		),
	).WithTheme(GetTheme())
	if err := form.Run(); err != nil {
		return err
	}

	for _, k := range picked {
		s.Remove(k)
	}
	if err := ws.Commit(s); err != nil {
		return err
	}
	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Removed %d courses.\n", len(picked))))
	return nil
}

// runPriorityTUI lets the user rank courses one at a time, highest first.
func runPriorityTUI(ws *workspace.Workspace) error {
	s := ws.Schedule()
	pool := append([]string{}, s.Priority...)
	for _, k := range s.Courses {
		if s.Rank(k) == len(s.Priority) {
			pool = append(pool, k)
		}
	}
	if len(pool) == 0 {
		fmt.Println(dimStyle.Render("Add courses to your schedule first; they can then be ranked."))
		return nil
	}

	var ranked []string
	for len(pool) > 0 {
		options := make([]huh.Option[string], 0, len(pool)+1)
		for _, k := range pool {
			options = append(options, huh.NewOption(courseLabel(k, ws.Catalog[k]), k))
		}
		options = append(options, huh.NewOption("✔ Done (the rest stay unranked)", ""))

		var next string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Priority " + strconv.Itoa(len(ranked)+1)).
					Description("Pick the most important remaining course.").
					Options(options...).
					Value(&next),
			),
		).WithTheme(GetTheme())
		if err := form.Run(); err != nil {
			return err
		}
		if next == "" {
			break
		}
		ranked = append(ranked, next)
		for i, k := range pool {
			if k == next {
				pool = append(pool[:i], pool[i+1:]...)
				break
			}
		}
	}

	if err := s.SetPriority(ranked); err != nil {
		return err
	}
	if err := ws.Commit(s); err != nil {
		return err
	}
	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Ranked %d courses.\n", len(ranked))))
	return nil
}

// RunCombinationsTUI asks for course codes and offers the best conflict-free picks.
func RunCombinationsTUI(ws *workspace.Workspace) error {
	var input string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Courses to combine").
				Description("Base course codes or names, separated by commas.").
				Placeholder("1214032, 1214040, ریاضی").
				Value(&input).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("enter at least one course")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())
	if err := form.Run(); err != nil {
		return err
	}

	groups := splitList(input)
	combos := planner.BestCombinations(groups, ws.Catalog, 20)
	if len(combos) == 0 {
		for _, g := range groups {
			if len(planner.Candidates(g, ws.Catalog)) == 0 {
				fmt.Println(errorStyle.Render("No sections found for " + g))
				return nil
			}
		}
		fmt.Println(errorStyle.Render("Every combination has a time conflict."))
		return nil
	}

	options := make([]huh.Option[int], 0, len(combos))
	for i, c := range combos {
		label := fmt.Sprintf("%d days, %.1f idle h: %s", c.Days, c.Idle, strings.Join(c.Courses, ", "))
		options = append(options, huh.NewOption(label, i))
	}
	return chooseSchedule(ws, "Pick a combination", options, func(i int) []string { return combos[i].Courses })
}

func runGreedyTUI(ws *workspace.Workspace) error {
	if len(ws.Data.PriorityList) == 0 {
		fmt.Println(dimStyle.Render("Set your priorities first."))
		return nil
	}
	alts := planner.PriorityAlternatives(ws.Data.PriorityList, ws.Catalog)
	if len(alts) == 0 {
		fmt.Println(errorStyle.Render("None of the prioritised courses could be placed."))
		return nil
	}
	options := make([]huh.Option[int], 0, len(alts))
	for i, a := range alts {
		label := fmt.Sprintf("%s: %d courses, %d days", a.Method, len(a.Courses), a.Days)
		if len(a.Skipped) > 0 {
			label += " (without " + strings.Join(a.Skipped, ", ") + ")"
		}
		options = append(options, huh.NewOption(label, i))
	}
	return chooseSchedule(ws, "Pick a schedule", options, func(i int) []string { return alts[i].Courses })
}

// chooseSchedule previews the chosen candidate and applies or saves it.
func chooseSchedule(ws *workspace.Workspace, title string, options []huh.Option[int], keysOf func(int) []string) error {
	var choice int
	var action string
	var name string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(options...).
				Value(&choice),
			huh.NewSelect[string]().
				Title("Then").
				Options(
					huh.NewOption("Use it as my schedule", "apply"),
					huh.NewOption("Save it as a combination", "save"),
					huh.NewOption("Just preview it", "preview"),
				).
				Value(&action),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Combination name").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return action != "save" }),
	).WithTheme(GetTheme())
	if err := form.Run(); err != nil {
		return err
	}

	keys := keysOf(choice)
	fmt.Println(timetable.Render(timetable.Build(keys, ws.Catalog), timetable.Options{Accent: ws.Config.AccentColor}))
	fmt.Println(timetable.Legend(keys, ws.Catalog))

	switch action {
	case "apply":
		ws.Data.CurrentSchedule = keys
	case "save":
		if _, err := ws.Data.SaveCombination(name, keys, ws.Catalog, false); err != nil {
			return err
		}
	default:
		return nil
	}
	if err := ws.Save(); err != nil {
		return err
	}
	fmt.Println(accentStyle.Render("\n✅ Done.\n"))
	return nil
}

func runSavedCombosTUI(ws *workspace.Workspace) error {
	if len(ws.Data.SavedCombos) == 0 {
		fmt.Println(dimStyle.Render("No saved combinations yet."))
		return nil
	}
	options := make([]huh.Option[string], 0, len(ws.Data.SavedCombos))
	for _, c := range ws.Data.SavedCombos {
		label := fmt.Sprintf("%s: %d courses, %d days (%s)", c.Name, len(c.Courses), c.Days, c.CreatedAt.Format("2006-01-02"))
		options = append(options, huh.NewOption(label, c.ID))
	}

	var id, action string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Saved combinations").
				Options(options...).
				Value(&id),
			huh.NewSelect[string]().
				Title("Action").
				Options(
					huh.NewOption("Load as my schedule", "load"),
					huh.NewOption("Preview", "preview"),
					huh.NewOption("Delete", "delete"),
				).
				Value(&action),
		),
	).WithTheme(GetTheme())
	if err := form.Run(); err != nil {
		return err
	}

	combo, err := ws.Data.FindCombination(id)
	if err != nil {
		return err
	}
	switch action {
	case "preview":
		fmt.Println(timetable.Render(timetable.Build(combo.Courses, ws.Catalog), timetable.Options{Accent: ws.Config.AccentColor}))
		return nil
	case "delete":
		if _, err := ws.Data.DeleteCombination(id); err != nil {
			return err
		}
	case "load":
		var keys []string
		for _, k := range combo.Courses {
			if _, ok := ws.Catalog[k]; ok {
				keys = append(keys, k)
			}
		}
		ws.Data.CurrentSchedule = keys
	}
	if err := ws.Save(); err != nil {
		return err
	}
	fmt.Println(accentStyle.Render("\n✅ Done.\n"))
	return nil
}

func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '،' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
