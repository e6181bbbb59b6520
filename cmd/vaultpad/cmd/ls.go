package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emirkaya/vaultpad/internal/domain"
)

var lsFormat string

var lsCmd = &cobra.Command{
	Use:   "ls [folder]",
	Short: "List items in a folder",
	Long: `Lists the items of a folder, folders first, then files, both in
case-insensitive name order. With no argument the store root is listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		if err := navigateTo(path); err != nil {
			return err
		}

		items, err := svc.Store().ScanCurrent()
		if err != nil {
			return fmt.Errorf("failed to list folder: %w", err)
		}

		switch lsFormat {
		case "json":
			return printItemsJSON(items)
		default:
			return printItemsTable(items)
		}
	},
}

func printItemsTable(items []domain.Item) error {
	if len(items) == 0 {
		fmt.Println("(empty)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KIND\tNAME\t\n")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t\n", item.Kind, item.DisplayName)
	}
	return w.Flush()
}

func printItemsJSON(items []domain.Item) error {
	type row struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
		Path string `json:"path"`
	}
	rows := make([]row, 0, len(items))
	for _, item := range items {
		rows = append(rows, row{Name: item.DisplayName, Kind: item.Kind.String(), Path: item.FullPath})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

func init() {
	lsCmd.Flags().StringVarP(&lsFormat, "format", "f", "table", "output format (table, json)")
	rootCmd.AddCommand(lsCmd)
}
