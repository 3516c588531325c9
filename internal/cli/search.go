package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minuted/minuted/internal/planner"
)

var (
	searchLimit   int
	searchMeeting string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search meeting transcripts semantically",
	Long: `Search indexed meeting transcripts with semantic similarity.

The result count is derived from the query (broad questions fetch more
chunks) unless -n is given. Use --meeting to search inside one meeting.

Examples:
  minuted search "action items from the infra sync"
  minuted search "everything in meeting_ab12cd34"
  minuted search "launch date" -n 3
  minuted search "budget" --meeting meeting_ab12cd34`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "number of results (default derived from the query)")
	searchCmd.Flags().StringVar(&searchMeeting, "meeting", "", "restrict to one meeting ID")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx := context.Background()

	if err := initLLM(); err != nil {
		return err
	}

	plan := planner.Plan(query)
	k := plan.K
	if searchLimit > 0 {
		k = searchLimit
	}
	meetingID := plan.MeetingID
	if searchMeeting != "" {
		meetingID = searchMeeting
	}

	embedding, err := embedder.Embed(ctx, query)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}

	docs, err := storeClient.SearchDocuments(ctx, embedding, k, meetingID)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(docs) == 0 {
		fmt.Println("No matching meeting segments found.")
		return nil
	}

	fmt.Printf("Found %d segments:\n", len(docs))
	for i, doc := range docs {
		fmt.Printf("\n%d. %s (%s)  chunk %d/%d  score %.3f\n",
			i+1, doc.MeetingID, doc.MeetingDate, doc.ChunkIndex+1, doc.TotalChunks, doc.Score)
		if doc.MeetingTitle != "" {
			fmt.Printf("   %s\n", doc.MeetingTitle)
		}
		fmt.Printf("   %s\n", doc.Text)
	}
	return nil
}
