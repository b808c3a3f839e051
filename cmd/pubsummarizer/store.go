package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logan-lin/pubsummarizer/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect the paper database",
	Long: `Store lists the papers in the database with their pipeline phase:
content-fetched, content-extracted, or summarized. Useful for checking
what a summarize or export run would pick up.`,
	RunE: runStore,
}

func init() {
	storeCmd.Flags().String("collection", "", "restrict to one collection")
	storeCmd.Flags().Bool("missing-summary", false, "only papers without a summary")
	storeCmd.Flags().Bool("missing-content", false, "only papers without extracted text")

	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	collection, _ := cmd.Flags().GetString("collection")
	missingSummary, _ := cmd.Flags().GetBool("missing-summary")
	missingContent, _ := cmd.Flags().GetBool("missing-content")

	st, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	papers, err := st.List(cmd.Context(), store.Filter{
		Collection:     collection,
		MissingSummary: missingSummary,
		MissingContent: missingContent,
	})
	if err != nil {
		return err
	}

	for _, p := range papers {
		fmt.Fprintf(os.Stdout, "%-16s  %-17s  %-24s  %s\n", p.ID[:16], p.Phase(), p.Collection, p.Title)
	}
	fmt.Fprintf(os.Stdout, "\n%d paper(s)\n", len(papers))
	return nil
}
