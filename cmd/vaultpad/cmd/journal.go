package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emirkaya/vaultpad/internal/state"
)

var (
	journalLimit int
	journalPath  string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show the mutation journal",
	Long: `Prints recent store mutations with their outcome: done, rejected,
fs_failed, or index_partial. index_partial entries mark operations whose
filesystem change succeeded but whose index update did not.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if journal == nil {
			return fmt.Errorf("the mutation journal is disabled in the configuration")
		}

		var records []state.MutationRecord
		var err error
		if journalPath != "" {
			item, resolveErr := resolveItem(journalPath)
			if resolveErr != nil {
				return resolveErr
			}
			records, err = journal.HistoryForPath(item.FullPath, journalLimit)
		} else {
			records, err = journal.History(journalLimit)
		}
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("Journal is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "TIME\tOPERATION\tSTATUS\tPATH\tNEW PATH\tERROR\t\n")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				rec.Operation,
				rec.Status,
				rec.ItemPath,
				rec.NewPath,
				rec.Error,
			)
		}
		return w.Flush()
	},
}

func init() {
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum entries to show")
	journalCmd.Flags().StringVar(&journalPath, "item", "", "only entries touching this item")
	rootCmd.AddCommand(journalCmd)
}
