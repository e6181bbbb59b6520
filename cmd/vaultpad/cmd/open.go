package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emirkaya/vaultpad/internal/domain"
	"github.com/emirkaya/vaultpad/internal/keyring"
)

var (
	openPassword string
	openRemember bool
	openForget   bool
)

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Open a document and print its payload",
	Long: `Checks the document's password, records the access in the
recently-opened list, and writes the payload to stdout.

With --remember the password is stored in the OS keyring after a
successful open; later opens of the same document try the keyring
before prompting.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// a successful open writes the recency index, so it locks like
		// any other mutation
		if err := acquireLock("open"); err != nil {
			return err
		}

		item, err := resolveItem(args[0])
		if err != nil {
			return err
		}

		password := openPassword
		if password == "" {
			if remembered, err := keyring.Recall(item.FullPath); err == nil {
				password = remembered
			}
		}

		payloadPath, err := svc.Open(item, password)
		if errors.Is(err, domain.ErrWrongPassword) && openPassword == "" {
			// the remembered or empty password was wrong, ask once
			password, err = promptPassword("Password")
			if err != nil {
				return err
			}
			payloadPath, err = svc.Open(item, password)
		}
		if err != nil {
			return err
		}

		if openRemember && password != "" {
			if err := keyring.Remember(item.FullPath, password); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		}
		if openForget {
			if err := keyring.Forget(item.FullPath); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		}

		payload, err := os.ReadFile(payloadPath)
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
		_, err = os.Stdout.Write(payload)
		return err
	},
}

func init() {
	openCmd.Flags().StringVar(&openPassword, "password", "", "document password (prompted when omitted)")
	openCmd.Flags().BoolVar(&openRemember, "remember", false, "store the password in the OS keyring")
	openCmd.Flags().BoolVar(&openForget, "forget", false, "remove any remembered password for this document")
	rootCmd.AddCommand(openCmd)
}
