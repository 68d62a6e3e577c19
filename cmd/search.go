package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/christianbooksai/companion/internal/models"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <question>",
		Short: "Ask a devotional question and get book recommendations",
		Example: `  companion search "How do I deal with grief?"
  companion search --json "What does Romans 8 mean?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDiscovery(cmd.Context(), opts.cfg, nil)
			if err != nil {
				return err
			}

			resp, err := svc.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printSearch(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")

	return cmd
}

func newDetailsCmd(opts *rootOptions) *cobra.Command {
	var (
		title  string
		author string
		query  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "details",
		Short:   "Generate the devotional deep-dive for one book",
		Example: `  companion details --title "Mere Christianity" --author "C.S. Lewis" --query "doubt"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDiscovery(cmd.Context(), opts.cfg, nil)
			if err != nil {
				return err
			}

			details, err := svc.BookDetails(cmd.Context(), models.BookDetailsRequest{
				Query:  query,
				Title:  title,
				Author: author,
			})
			if err != nil {
				return fmt.Errorf("failed to fetch details: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), details)
			}
			printDetails(cmd.OutOrStdout(), details)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Book title (required)")
	cmd.Flags().StringVar(&author, "author", "", "Book author (required)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "The question the reader is exploring")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSearch(w io.Writer, resp *models.SearchResponse) {
	fmt.Fprintf(w, "%s\n", resp.AIOverview.Content)
	for i, r := range resp.Results {
		fmt.Fprintf(w, "\n%d. %s by %s", i+1, r.Title, r.Author)
		if year := r.YearString(); year != "" {
			fmt.Fprintf(w, " (%s)", year)
		}
		fmt.Fprintf(w, "\n   id: %s  category: %s\n   %s\n   cover: %s\n", r.IDString(), r.Category, r.Summary, r.Image)
	}
}

func printDetails(w io.Writer, d *models.BookDetails) {
	fmt.Fprintf(w, "%s\n\n", d.ApplicationParagraph)
	if d.AIInterpretation != "" {
		fmt.Fprintf(w, "Interpretation: %s\n\n", d.AIInterpretation)
	}
	for _, q := range d.Quotes {
		fmt.Fprintf(w, "  \"%s\"\n", q)
	}
	if d.DevotionalQuestion != "" {
		fmt.Fprintf(w, "\nReflect: %s\n", d.DevotionalQuestion)
	}
	if d.PracticalTip != "" {
		fmt.Fprintf(w, "Try today: %s\n", d.PracticalTip)
	}
}
