package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"golestoon/pkg/config"
	"golestoon/pkg/logger"
	"golestoon/pkg/workspace"
)

var (
	verbose bool
	dataDir string

	cfg       *config.AppConfig
	log       = zerolog.Nop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "golestoon",
	Short: "A CLI and TUI for planning Golestan course schedules",
	Long: `golestoon helps university students build a weekly class schedule,
detect time conflicts, view exam timetables and sync the course catalogue
from the Golestan portal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if cfg.AccentColor != "" {
			accentStyle = accentStyle.Foreground(lipgloss.Color(cfg.AccentColor))
		}
		dir, err := cfg.ResolveDataDir()
		if err != nil {
			return err
		}
		log, logCloser, err = logger.Setup(cfg.LogLevel, filepath.Join(dir, "logs"), verbose)
		if err != nil {
			return err
		}
		log.Debug().Str("command", cmd.CommandPath()).Str("data_dir", dir).Msg("starting")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr as well as the log file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ~/.golestoon)")
}

// openWorkspace loads the data directory for commands that need it.
func openWorkspace() (*workspace.Workspace, error) {
	return workspace.Open(cfg, log)
}
