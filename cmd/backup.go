package cmd

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"golestoon/pkg/store"
)

// openStore returns the data directory without loading it, so backups can
// be handled even when user_data.json is broken.
func openStore() (*store.Store, error) {
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	return store.New(dir), nil
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "List, create and restore backups of your data",
}

var backupListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		backups, err := st.ListBackups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			warn("No backups yet")
			return nil
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Taken", "Bytes"})
		table.SetAutoFormatHeaders(false)
		for _, b := range backups {
			table.Append([]string{b.Name, b.Time.Format("2006-01-02 15:04:05"), strconv.FormatInt(b.Size, 10)})
		}
		table.Render()
		return nil
	},
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up the current user data now",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		b, err := st.CreateBackup()
		if err != nil {
			return err
		}
		success("Created %s", b.Name)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Restore a backup (the current data is backed up first)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.RestoreBackup(args[0]); err != nil {
			return err
		}
		log.Info().Str("backup", args[0]).Msg("backup restored")
		success("Restored %s", args[0])
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		st, err := openStore()
		if err != nil {
			return err
		}
		removed, err := st.PruneBackups(keep)
		if err != nil {
			return err
		}
		success("Removed %d backups", len(removed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupListCmd, backupCreateCmd, backupRestoreCmd, backupPruneCmd)

	backupPruneCmd.Flags().Int("keep", store.DefaultKeepBackups, "Number of backups to keep")
}
