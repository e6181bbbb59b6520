package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <path> <new-name>",
	Short: "Rename an item",
	Long: `Renames an item in place. Records in the recently-opened and
pinned lists follow the item to its new path, and for folders every
record underneath moves with it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := acquireLock("rename"); err != nil {
			return err
		}

		item, err := resolveItem(args[0])
		if err != nil {
			return err
		}

		newPath, err := svc.Rename(item, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed to %s\n", newPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
