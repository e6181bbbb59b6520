package cmd

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"
)

var (
	createPassword string
	createPrompt   bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create folders and files",
}

var createFolderCmd = &cobra.Command{
	Use:   "folder <path>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := acquireLock("create"); err != nil {
			return err
		}

		dir, name := path.Split(args[0])
		if err := navigateTo(dir); err != nil {
			return err
		}

		item, err := svc.CreateFolder(name)
		if err != nil {
			return err
		}
		fmt.Printf("Folder %q created\n", item.DisplayName)
		return nil
	},
}

var createFileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Create a document",
	Long: `Creates a document with an empty payload. Use --password or
--protect to gate it behind a password; without either, the document
opens freely.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := acquireLock("create"); err != nil {
			return err
		}

		dir, name := path.Split(args[0])
		if err := navigateTo(dir); err != nil {
			return err
		}

		password := createPassword
		if createPrompt && password == "" {
			var err error
			password, err = promptNewPassword()
			if err != nil {
				return err
			}
		}

		item, err := svc.CreateFile(name, password)
		if err != nil {
			return err
		}

		if password != "" {
			fmt.Printf("Protected document %q created\n", item.DisplayName)
		} else {
			fmt.Printf("Document %q created\n", item.DisplayName)
		}
		return nil
	},
}

func init() {
	createFileCmd.Flags().StringVar(&createPassword, "password", "", "document password (prefer --protect to avoid shell history)")
	createFileCmd.Flags().BoolVar(&createPrompt, "protect", false, "prompt for a document password")

	createCmd.AddCommand(createFolderCmd)
	createCmd.AddCommand(createFileCmd)
	rootCmd.AddCommand(createCmd)
}
