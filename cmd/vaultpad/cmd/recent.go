package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened documents, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records := svc.Recent()
		if len(records) == 0 {
			fmt.Println("No recently opened documents")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "NAME\tLAST OPENED\tOPENS\tPATH\t\n")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t\n",
				rec.Name,
				rec.LastAccessed.Local().Format("2006-01-02 15:04"),
				rec.AccessCount,
				rec.FullPath,
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(recentCmd)
}
