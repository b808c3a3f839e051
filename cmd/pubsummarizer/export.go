package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logan-lin/pubsummarizer/internal/export"
	"github.com/logan-lin/pubsummarizer/internal/store"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render stored papers as a Markdown or HTML digest",
	Long: `Export renders the papers in the database into a single shareable
document: a Markdown file with one section per paper, or a standalone
Bootstrap HTML page with one card per paper.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "markdown", "output format: markdown or html")
	exportCmd.Flags().String("output", "summaries.md", "output file path")
	exportCmd.Flags().String("title", "Research Paper Summaries", "document title")
	exportCmd.Flags().String("collection", "", "restrict to one collection")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	title, _ := cmd.Flags().GetString("title")
	collection, _ := cmd.Flags().GetString("collection")

	st, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := export.Run(cmd.Context(), st, types.ExportConfig{
		Format:     types.ExportFormat(format),
		OutputPath: output,
		Title:      title,
		Collection: collection,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported %d paper(s) to %s\n", n, output)
	return nil
}
