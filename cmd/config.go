package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"golestoon/pkg/config"
	"golestoon/pkg/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage golestoon configuration",
	Long: `View or edit ~/.golestoon.json. Without flags an interactive settings
menu opens. Environment variables (and a .env file) override saved values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := config.LoadFile()
		if err != nil {
			return err
		}

		fl := cmd.Flags()
		if show, _ := fl.GetBool("show"); show {
			printConfig(cfg)
			return nil
		}

		changed := false
		setString := func(flag string, dst *string) {
			if fl.Changed(flag) {
				*dst, _ = fl.GetString(flag)
				changed = true
			}
		}
		setString("portal", &fileCfg.PortalURL)
		setString("captcha", &fileCfg.CaptchaURL)
		setString("remote", &fileCfg.RemoteCatalogURL)
		setString("accent", &fileCfg.AccentColor)
		setString("log-level", &fileCfg.LogLevel)
		setString("major", &fileCfg.DefaultMajor)
		setString("listen", &fileCfg.ListenAddr)
		setString("dir", &fileCfg.DataDir)

		if fl.Changed("interval") {
			v, _ := fl.GetString("interval")
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid interval %q: %w", v, err)
			}
			fileCfg.SyncInterval = v
			changed = true
		}
		if fl.Changed("semester-start") {
			v, _ := fl.GetString("semester-start")
			if _, err := time.Parse("2006-01-02", v); v != "" && err != nil {
				return fmt.Errorf("semester start must be YYYY-MM-DD: %w", err)
			}
			fileCfg.SemesterStart = v
			changed = true
		}
		if fl.Changed("semester-weeks") {
			fileCfg.SemesterWeeks, _ = fl.GetInt("semester-weeks")
			changed = true
		}

		if changed {
			if err := config.Save(fileCfg); err != nil {
				return err
			}
			success("Configuration saved")
			return nil
		}

		// If no flags are given, launch the interactive TUI flow
		return tui.RunConfigTUI()
	},
}

func printConfig(c *config.AppConfig) {
	dir, _ := c.ResolveDataDir()
	start, weeks, _ := c.Semester()
	heading("Current configuration (~/.golestoon.json + environment)")
	fmt.Printf("Data directory:  %s\n", dir)
	fmt.Printf("Portal:          %s\n", c.Portal())
	fmt.Printf("Captcha service: %s\n", orNone(c.CaptchaURL, "prompt"))
	fmt.Printf("Remote catalog:  %s\n", orNone(c.RemoteCatalogURL, "none"))
	fmt.Printf("Sync interval:   %s\n", c.Interval())
	if start.IsZero() {
		fmt.Printf("Semester:        not set, %d weeks\n", weeks)
	} else {
		fmt.Printf("Semester:        %s, %d weeks\n", start.Format("2006-01-02"), weeks)
	}
	fmt.Printf("Default major:   %s\n", orNone(c.DefaultMajor, "any"))
	fmt.Printf("API listen:      %s\n", c.Listen())
	fmt.Printf("Log level:       %s\n", orNone(c.LogLevel, "info"))
	fmt.Printf("Accent color:    %s\n", orNone(c.AccentColor, "99"))
}

func orNone(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("show", false, "Print the effective configuration")
	configCmd.Flags().String("portal", "", "Golestan portal base URL")
	configCmd.Flags().String("captcha", "", "Captcha recognition service URL (empty = ask)")
	configCmd.Flags().String("remote", "", "Remote catalogue API URL")
	configCmd.Flags().String("accent", "", "Accent colour (ANSI number or hex)")
	configCmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	configCmd.Flags().String("major", "", "Default major filter for course list")
	configCmd.Flags().String("listen", "", "Listen address for serve")
	configCmd.Flags().String("dir", "", "Data directory")
	configCmd.Flags().String("interval", "", "Sync interval, e.g. 6h")
	configCmd.Flags().String("semester-start", "", "First day of the semester, YYYY-MM-DD")
	configCmd.Flags().Int("semester-weeks", 0, "Semester length in weeks")
}
