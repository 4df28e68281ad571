package tui

import (
	"context"
	"errors"
	"fmt"

	"golestoon/pkg/credentials"
	"golestoon/pkg/syncer"
	"golestoon/pkg/workspace"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

func runSyncTUI(ws *workspace.Workspace) error {
	vault := ws.Vault()
	_, fromEnv := credentials.FromEnv()

	var passphrase string
	if !fromEnv && vault.Sealed() {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Passphrase for your saved credentials").
					EchoMode(huh.EchoModePassword).
					Value(&passphrase),
			),
		).WithTheme(GetTheme())
		if err := form.Run(); err != nil {
			return err
		}
	}

	if ws.Config.RemoteCatalogURL == "" && !fromEnv && !vault.Exists() {
		fmt.Println(errorStyle.Render("No credentials saved. Run `golestoon login` first."))
		return nil
	}

	s := ws.Syncer(passphrase)
	var res syncer.Result
	var err error
	run := func() { res, err = s.Sync(context.Background()) }
	if ws.Config.CaptchaURL != "" {
		_ = spinner.New().Title("Syncing the course catalogue...").Action(run).Run()
	} else {
		run()
	}
	if errors.Is(err, credentials.ErrWrongPassphrase) {
		fmt.Println(errorStyle.Render("Wrong passphrase."))
		return nil
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if err := ws.Reload(); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ %d available and %d unavailable courses from %s.\n", res.Available, res.Unavailable, res.Source)))
	return nil
}

func runBackupsTUI(ws *workspace.Workspace) error {
	backups, err := ws.Store.ListBackups()
	if err != nil {
		return err
	}

	options := []huh.Option[string]{huh.NewOption("➕ Create a backup now", "")}
	for _, b := range backups {
		options = append(options, huh.NewOption(fmt.Sprintf("Restore %s (%s)", b.Name, b.Time.Format("2006-01-02 15:04:05")), b.Name))
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Backups").
				Description("Restoring backs up the current data first.").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(GetTheme())
	if err := form.Run(); err != nil {
		return err
	}

	if choice == "" {
		b, err := ws.Store.CreateBackup()
		if err != nil {
			return err
		}
		fmt.Println(accentStyle.Render("\n✅ Created " + b.Name + "\n"))
		return nil
	}

	confirm := false
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title("Replace your current data with " + choice + "?").Value(&confirm),
	)).WithTheme(GetTheme()).Run(); err != nil {
		return err
	}
	if !confirm {
		return nil
	}
	if err := ws.Store.RestoreBackup(choice); err != nil {
		return err
	}
	if err := ws.Reload(); err != nil {
		return err
	}
	ws.Log.Info().Str("backup", choice).Msg("backup restored")
	fmt.Println(accentStyle.Render("\n✅ Restored " + choice + "\n"))
	return nil
}
