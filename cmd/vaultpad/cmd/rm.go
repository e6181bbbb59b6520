package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rmYes bool

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete an item",
	Long: `Deletes an item permanently. Folders are removed with everything
inside them, and all affected records leave the recently-opened and
pinned lists.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := acquireLock("delete"); err != nil {
			return err
		}

		item, err := resolveItem(args[0])
		if err != nil {
			return err
		}

		if !rmYes {
			fmt.Fprintf(os.Stderr, "Delete %s %q permanently? [y/N]: ", item.Kind, item.DisplayName)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted")
				return nil
			}
		}

		if err := svc.Delete(item); err != nil {
			return err
		}
		fmt.Printf("Deleted %q\n", item.DisplayName)
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(rmCmd)
}
