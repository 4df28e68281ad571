package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"golestoon/pkg/credentials"
	"golestoon/pkg/golestan"
	"golestoon/pkg/syncer"
)

// passphraseFor asks for the vault passphrase only when it will be needed.
func passphraseFor(v *credentials.Vault) (string, error) {
	if _, ok := credentials.FromEnv(); ok || !v.Sealed() {
		return "", nil
	}
	return readSecret("Passphrase for saved credentials: ")
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the course catalogue from Golestan",
	Long: `Download the offered courses, from the remote catalogue API when one is
configured and from the Golestan portal otherwise. Portal reports are cached
for 12 hours unless --force is given. With --watch the sync repeats on the
configured interval until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		force, _ := cmd.Flags().GetBool("force")
		statusStr, _ := cmd.Flags().GetString("status")
		interval, _ := cmd.Flags().GetDuration("interval")

		status, err := golestan.ParseStatus(statusStr)
		if err != nil {
			return err
		}
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		passphrase, err := passphraseFor(ws.Vault())
		if err != nil {
			return err
		}

		s := ws.Syncer(passphrase)
		s.Status = status
		s.Force = force

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watch {
			if interval <= 0 {
				interval = ws.Config.Interval()
			}
			fmt.Println(accentStyle.Render(fmt.Sprintf("Syncing every %s, press Ctrl+C to stop", interval)))
			return s.Watch(ctx, interval)
		}

		var res syncer.Result
		run := func() { res, err = s.Sync(ctx) }
		if ws.Config.CaptchaURL != "" {
			_ = spinner.New().Title("Syncing the course catalogue...").Action(run).Run()
		} else {
			// the captcha prompt needs the terminal
			run()
		}
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		success("%s sync: %d available and %d unavailable courses (%s)",
			titleCase.String(string(res.Source)), res.Available, res.Unavailable, res.At.Format(time.DateTime))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Bool("watch", false, "Keep running and sync periodically")
	syncCmd.Flags().Duration("interval", 0, "Sync interval for --watch (default from config, else 6h)")
	syncCmd.Flags().BoolP("force", "f", false, "Ignore cached portal reports")
	syncCmd.Flags().String("status", "both", "Which courses to fetch: available, unavailable or both")
}
