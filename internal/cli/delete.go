package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	deleteForce bool
	deleteAll   bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete [meeting-id]",
	Short: "Delete a meeting from the knowledge base",
	Long: `Delete all indexed chunks of one meeting, or everything with --all.

Requires confirmation unless --force is used.

Examples:
  minuted delete meeting_ab12cd34
  minuted delete meeting_ab12cd34 --force
  minuted delete --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "delete every indexed document")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if deleteAll {
		if !confirm("About to delete ALL indexed documents.") {
			fmt.Println("Aborted.")
			return nil
		}
		if err := storeClient.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete all: %w", err)
		}
		fmt.Println("Deleted all indexed documents.")
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("pass a meeting ID or --all")
	}
	meetingID := args[0]

	doc, err := storeClient.GetMeetingDocument(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("look up meeting: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("meeting not found: %s", meetingID)
	}

	if !confirm(fmt.Sprintf("About to delete: %s (%s)", meetingID, doc.MeetingTitle)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := storeClient.DeleteMeeting(ctx, meetingID); err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	fmt.Printf("Deleted %s.\n", meetingID)
	return nil
}

func confirm(prompt string) bool {
	if deleteForce {
		return true
	}
	fmt.Println(prompt)
	fmt.Print("\nContinue? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
