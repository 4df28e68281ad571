package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"golestoon/pkg/credentials"
	"golestoon/pkg/workspace"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save your Golestan username and password",
	Long: `Store portal credentials in the data directory (readable only by you).
With --seal the password is encrypted with a passphrase that sync and
profile will ask for. GOLESTAN_USERNAME and GOLESTAN_PASSWORD take
precedence over saved credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		seal, _ := cmd.Flags().GetBool("seal")
		verify, _ := cmd.Flags().GetBool("verify")

		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		if username == "" {
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Golestan username (student number)").
						Value(&username).
						Validate(func(s string) error {
							if s == "" {
								return errors.New("username cannot be empty")
							}
							return nil
						}),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
		}
		password, err := readSecret("Password: ")
		if err != nil {
			return err
		}

		var passphrase string
		if seal {
			if passphrase, err = readSecret("New passphrase: "); err != nil {
				return err
			}
			again, err := readSecret("Repeat passphrase: ")
			if err != nil {
				return err
			}
			if again != passphrase {
				return errors.New("passphrases do not match")
			}
		}

		creds := credentials.Credentials{Username: username, Password: password}
		if verify {
			if err := verifyLogin(cmd.Context(), ws, creds); err != nil {
				return err
			}
		}
		if err := ws.Vault().Save(creds, passphrase); err != nil {
			return err
		}
		success("Credentials saved to %s", ws.Vault().Path())
		return nil
	},
}

func verifyLogin(ctx context.Context, ws *workspace.Workspace, creds credentials.Credentials) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := ws.NewClient()
	if err != nil {
		return err
	}
	fmt.Println(accentStyle.Render("Checking the credentials with Golestan..."))
	if err := client.Login(ctx, creds.Username, creds.Password); err != nil {
		return fmt.Errorf("login check failed: %w", err)
	}
	success("Logged in as %s", creds.Username)
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved credentials and cached portal reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		if err := ws.Vault().Delete(); err != nil {
			return err
		}
		client, err := ws.NewClient()
		if err != nil {
			return err
		}
		if err := client.ClearCache(); err != nil {
			return err
		}
		success("Credentials and report cache removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd)

	loginCmd.Flags().StringP("username", "u", "", "Golestan username")
	loginCmd.Flags().Bool("seal", false, "Encrypt the password with a passphrase")
	loginCmd.Flags().Bool("verify", false, "Log in to the portal before saving")
}
