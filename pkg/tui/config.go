package tui

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golestoon/pkg/config"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// RunConfigTUI launches the interactive experience for managing configurations
func RunConfigTUI() error {
	for {
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("Set Portal and Captcha Service", "portal"),
						huh.NewOption("Set Remote Catalogue and Sync Interval", "sync"),
						huh.NewOption("Set Semester Dates (For Calendar Export)", "semester"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "theme":
			err = runSetThemeTUI(cfg)
		case "portal":
			err = runSetPortalTUI(cfg)
		case "sync":
			err = runSetSyncTUI(cfg)
		case "semester":
			err = runSetSemesterTUI(cfg)
		case "view":
			printConfig(cfg)
		}

		if err != nil {
			return err
		}
	}
}

func printConfig(cfg *config.AppConfig) {
	fmt.Println(accentStyle.Render("\n--- Current Configuration (~/.golestoon.json) ---"))
	show := func(label, value, fallback string) {
		if value == "" {
			value = fallback
		}
		fmt.Printf("%-16s %s\n", label+":", value)
	}
	show("Data Directory", cfg.DataDir, "~/.golestoon")
	show("Portal", cfg.PortalURL, config.DefaultPortalURL)
	show("Captcha Service", cfg.CaptchaURL, "Not set (you will be asked)")
	show("Remote Catalog", cfg.RemoteCatalogURL, "Not set")
	show("Sync Interval", cfg.SyncInterval, config.DefaultSyncInterval.String())
	show("Semester Start", cfg.SemesterStart, "Not set")
	if cfg.SemesterWeeks > 0 {
		show("Semester Weeks", fmt.Sprint(cfg.SemesterWeeks), "")
	}
	show("Default Major", cfg.DefaultMajor, "Any")
	show("Accent Color", cfg.AccentColor, "99")
	fmt.Println()
}

func validURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL")
	}
	return nil
}

func runSetPortalTUI(cfg *config.AppConfig) error {
	portal := cfg.PortalURL
	captchaURL := cfg.CaptchaURL

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Golestan portal address").
				Description("Leave empty for " + config.DefaultPortalURL).
				Placeholder(config.DefaultPortalURL).
				Value(&portal).
				Validate(validURL),
			huh.NewInput().
				Title("Captcha recognition service").
				Description("URL of a service that reads captcha images.\nLeave empty to type captchas yourself.").
				Placeholder("http://localhost:5000/predict").
				Value(&captchaURL).
				Validate(validURL),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.PortalURL = strings.TrimSpace(portal)
	cfg.CaptchaURL = strings.TrimSpace(captchaURL)
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Portal settings saved.\n"))
	return nil
}

func runSetSyncTUI(cfg *config.AppConfig) error {
	remote := cfg.RemoteCatalogURL
	interval := cfg.SyncInterval

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Remote catalogue API").
				Description("Another golestoon instance running `serve`. Tried before the portal.").
				Placeholder("http://192.168.1.10:8780").
				Value(&remote).
				Validate(validURL),
			huh.NewInput().
				Title("Sync interval").
				Description("How often `sync --watch` refreshes the catalogue.").
				Placeholder(config.DefaultSyncInterval.String()).
				Value(&interval).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if d, err := time.ParseDuration(s); err != nil || d <= 0 {
						return fmt.Errorf("use a duration like 30m or 6h")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.RemoteCatalogURL = strings.TrimSpace(remote)
	cfg.SyncInterval = strings.TrimSpace(interval)
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Sync settings saved.\n"))
	return nil
}

func runSetSemesterTUI(cfg *config.AppConfig) error {
	start := cfg.SemesterStart
	weeks := ""
	if cfg.SemesterWeeks > 0 {
		weeks = fmt.Sprint(cfg.SemesterWeeks)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First day of classes").
				Description("Gregorian date, YYYY-MM-DD. Week 1 starts here.").
				Placeholder("2025-09-20").
				Value(&start).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := time.Parse("2006-01-02", s)
					return err
				}),
			huh.NewInput().
				Title("Semester length in weeks").
				Placeholder("16").
				Value(&weeks).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					var n int
					if _, err := fmt.Sscan(s, &n); err != nil || n <= 0 || n > 30 {
						return fmt.Errorf("enter a number between 1 and 30")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.SemesterStart = strings.TrimSpace(start)
	cfg.SemesterWeeks = 0
	if weeks != "" {
		fmt.Sscan(weeks, &cfg.SemesterWeeks)
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Semester saved.\n"))
	return nil
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color for golestoon").
				Description("Select a curated style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Persian Blue", colorBlock("33")), "33"),
					huh.NewOption(fmt.Sprintf("%s Lavender", colorBlock("99")), "99"),
					huh.NewOption(fmt.Sprintf("%s Pomegranate", colorBlock("161")), "161"),
					huh.NewOption(fmt.Sprintf("%s Pistachio", colorBlock("113")), "113"),
					huh.NewOption(fmt.Sprintf("%s Saffron", colorBlock("214")), "214"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&hexInput).
					Validate(func(str string) error {
						if len(str) != 7 || !strings.HasPrefix(str, "#") {
							return fmt.Errorf("must be a valid 6-character hex code starting with #")
						}
						return nil
					}),
			),
		).WithTheme(GetTheme())

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ The theme color is now saved.\n"))
	return nil
}
