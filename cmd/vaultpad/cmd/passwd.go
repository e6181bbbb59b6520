package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emirkaya/vaultpad/internal/domain"
	"github.com/emirkaya/vaultpad/internal/keyring"
	"github.com/emirkaya/vaultpad/internal/vault"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd <path>",
	Short: "Set or change a document's password",
	Long: `Changes a document's password. An already protected document
requires its current password first; an unprotected one gets a fresh
credential. Any remembered keyring password is dropped afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := acquireLock("passwd"); err != nil {
			return err
		}

		item, err := resolveItem(args[0])
		if err != nil {
			return err
		}

		_, credErr := vault.Load(item.CredentialPath())
		protected := credErr == nil
		if credErr != nil && !errors.Is(credErr, domain.ErrNotFound) {
			return credErr
		}

		newPassword, err := promptNewPassword()
		if err != nil {
			return err
		}

		if protected {
			current, err := promptPassword("Current password")
			if err != nil {
				return err
			}
			if err := svc.ChangePassword(item, current, newPassword); err != nil {
				return err
			}
		} else {
			if err := svc.SetPassword(item, newPassword); err != nil {
				return err
			}
		}

		if err := keyring.Forget(item.FullPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		fmt.Printf("Password updated for %q\n", item.DisplayName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passwdCmd)
}
