package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var pinCmd = &cobra.Command{
	Use:   "pin <path>",
	Short: "Pin an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := acquireLock("pin"); err != nil {
			return err
		}

		item, err := resolveItem(args[0])
		if err != nil {
			return err
		}

		added, err := svc.Pin(item)
		if err != nil {
			return err
		}
		if !added {
			fmt.Printf("%q is already pinned\n", item.DisplayName)
			return nil
		}
		fmt.Printf("Pinned %q\n", item.DisplayName)
		return nil
	},
}

var unpinCmd = &cobra.Command{
	Use:   "unpin <path>",
	Short: "Unpin an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := acquireLock("unpin"); err != nil {
			return err
		}

		item, err := resolveItem(args[0])
		if err != nil {
			return err
		}

		removed, err := svc.Unpin(item)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("%q was not pinned\n", item.DisplayName)
			return nil
		}
		fmt.Printf("Unpinned %q\n", item.DisplayName)
		return nil
	},
}

var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "List pinned items, newest pin first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records := svc.Pinned()
		if len(records) == 0 {
			fmt.Println("No pinned items")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "NAME\tPINNED\tPATH\t\n")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t\n",
				rec.Name, rec.PinnedAt.Local().Format("2006-01-02 15:04"), rec.FullPath)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(unpinCmd)
	rootCmd.AddCommand(pinsCmd)
}
