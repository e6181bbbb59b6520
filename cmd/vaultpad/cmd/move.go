package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <path> <target-folder>",
	Short: "Move an item into another folder",
	Long: `Moves an item into the target folder, keeping its name. Use ""
or / as the target for the store root. Index records follow the move.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := acquireLock("move"); err != nil {
			return err
		}

		item, err := resolveItem(args[0])
		if err != nil {
			return err
		}

		targetDir, err := resolveDir(args[1])
		if err != nil {
			return err
		}

		newPath, err := svc.Move(item, targetDir)
		if err != nil {
			return err
		}
		fmt.Printf("Moved to %s\n", newPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
