package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var meetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "List indexed meetings",
	Long: `List all meetings in the knowledge base with their chunk counts.

Examples:
  minuted meetings`,
	Args: cobra.NoArgs,
	RunE: runMeetings,
}

func runMeetings(cmd *cobra.Command, args []string) error {
	summaries, err := storeClient.ListMeetings(context.Background())
	if err != nil {
		return fmt.Errorf("list meetings: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No meetings indexed yet. Use 'minuted ingest' to add one.")
		return nil
	}

	fmt.Printf("%-20s %-12s %-40s %s\n", "MEETING", "DATE", "TITLE", "CHUNKS")
	for _, s := range summaries {
		title := s.MeetingTitle
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Printf("%-20s %-12s %-40s %d\n", s.MeetingID, s.MeetingDate, title, s.Chunks)
	}
	return nil
}
