package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"golestoon/pkg/course"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)

	titleCase = cases.Title(language.English)
)

func success(format string, a ...any) {
	okColor.Printf("✅ "+format+"\n", a...)
}

func warn(format string, a ...any) {
	warnColor.Printf("⚠️  "+format+"\n", a...)
}

func heading(s string) {
	fmt.Println(accentStyle.Render(s))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// sessionsLine joins a course's sessions for a single table cell.
func sessionsLine(c course.Course) string {
	parts := make([]string, 0, len(c.Schedule))
	for _, s := range c.Schedule {
		parts = append(parts, s.String())
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " | ")
}

// writeCourseTable prints one row per course in keys order.
func writeCourseTable(w io.Writer, keys []string, catalog course.Catalog) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Name", "Cr", "Instructor", "Sessions", "Open"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	for _, k := range keys {
		c, ok := catalog[k]
		if !ok {
			continue
		}
		name := c.Name
		if c.Custom {
			name += " *"
		}
		table.Append([]string{k, name, strconv.Itoa(c.Credits), c.Instructor, sessionsLine(c), yesNo(c.IsAvailable)})
	}
	table.Render()
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var s string
		_, err := fmt.Fscanln(os.Stdin, &s)
		return strings.TrimSpace(s), err
	}
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("could not read input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
