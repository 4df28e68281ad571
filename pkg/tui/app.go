package tui

import (
	"errors"
	"fmt"

	"golestoon/pkg/config"
	"golestoon/pkg/workspace"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	// These act as fallbacks initially, but should ideally be dynamically instantiated by GetTheme()
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// GetTheme loads the user's saved Accent Color and constructs the UI theme.
func GetTheme() *huh.Theme {
	cfg, err := config.Load()
	baseColor := "99"

	if err == nil && cfg != nil && cfg.AccentColor != "" {
		baseColor = cfg.AccentColor
	}

	// Update the global lipgloss accent so manual CLI print statements also receive the color
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(baseColor))

	return GetCustomTheme(baseColor)
}

// GetCustomTheme returns a new huh.Theme instantiated with the provided lipgloss color string.
// This is used for live-previewing styles before they are officially saved.
func GetCustomTheme(baseColor string) *huh.Theme {

	t := huh.ThemeCharm()
	p := lipgloss.Color(baseColor)

	// Inject the dynamic color into the active inputs, cursors, borders, and buttons
	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(p).Padding(0, 1)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(p)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(p)
	t.Focused.UnselectedPrefix = t.Focused.UnselectedPrefix.Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "235"})
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(p)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(p)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(p)

	// Softer borders for unfocused elements
	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	return t
}

// RunTUI launches the main menu and returns when the user quits.
func RunTUI(ws *workspace.Workspace) error {
	fmt.Println(accentStyle.Render("Welcome to golestoon!"))
	if ws.Recovered != "" {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Your data file was unreadable; loaded backup %s.", ws.Recovered)))
	}

	for {
		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("What would you like to do?").
					Description(summaryLine(ws)).
					Options(
						huh.NewOption("📅 View Timetable", "view"),
						huh.NewOption("🔎 Search and Add Courses", "search"),
						huh.NewOption("➖ Remove Courses", "remove"),
						huh.NewOption("⭐ Set Priorities", "priority"),
						huh.NewOption("🧩 Find Best Combinations", "combos"),
						huh.NewOption("🎯 Build From Priorities", "greedy"),
						huh.NewOption("💾 Saved Combinations", "saved"),
						huh.NewOption("📝 Export Exams or Calendar", "export"),
						huh.NewOption("🔄 Sync Course Catalogue", "sync"),
						huh.NewOption("🗂️ Backups", "backups"),
						huh.NewOption("⚙️ Settings", "config"),
						huh.NewOption("👋 Quit", "quit"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		var err error
		switch action {
		case "quit":
			return nil
		case "view":
			showTimetable(ws)
		case "search":
			err = RunSearchTUI(ws)
		case "remove":
			err = runRemoveTUI(ws)
		case "priority":
			err = runPriorityTUI(ws)
		case "combos":
			err = RunCombinationsTUI(ws)
		case "greedy":
			err = runGreedyTUI(ws)
		case "saved":
			err = runSavedCombosTUI(ws)
		case "export":
			err = RunExportTUI(ws)
		case "sync":
			err = runSyncTUI(ws)
		case "backups":
			err = runBackupsTUI(ws)
		case "config":
			err = RunConfigTUI()
		}

		if errors.Is(err, huh.ErrUserAborted) {
			continue
		}
		if err != nil {
			fmt.Println(errorStyle.Render("❌ " + err.Error()))
		}
	}
}

func summaryLine(ws *workspace.Workspace) string {
	st := ws.Schedule().Stats()
	line := fmt.Sprintf("%d courses in the catalogue · %d on your schedule (%d credits)", len(ws.Catalog), st.Courses, st.Credits)
	if !ws.Data.LastSync.IsZero() {
		line += " · synced " + ws.Data.LastSync.Format("2006-01-02 15:04")
	}
	return line
}
