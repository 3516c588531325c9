package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/minuted/minuted/internal/agent"
	"github.com/minuted/minuted/internal/metrics"
	"github.com/minuted/minuted/internal/models"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Have a conversation about your meetings",
	Long: `Start an interactive conversation with the meeting assistant.

The assistant can search meetings, show metadata, import documents and run
the video transcription workflow. Type "exit" or press Ctrl+D to leave.

Examples:
  minuted chat
  minuted chat -v    # print timing metrics on exit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("chat needs an interactive terminal; use 'minuted ask' for one-shot questions")
	}
	if err := initLLM(); err != nil {
		return err
	}

	a := newAgent()
	sessionID := uuid.New().String()[:8]
	ctx := context.Background()

	var history []models.Message
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Println("Chat with your meetings. Type 'exit' to quit.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		answer, err := a.Respond(ctx, sessionID, line, history, printProgress)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		fmt.Println(answer)
		fmt.Println()
		history = append(history,
			models.Message{Role: models.RoleUser, Content: line},
			models.Message{Role: models.RoleAssistant, Content: answer},
		)
	}

	if verbose {
		printMetricsSnapshot(collector.Snapshot())
	}
	return nil
}

// printProgress renders tool progress lines while the agent works.
func printProgress(e agent.Event) {
	if e.Kind == agent.EventToolStarted {
		fmt.Printf("  [%s] %s...\n", e.Category, e.Tool)
	}
}

func printMetricsSnapshot(snap metrics.Snapshot) {
	fmt.Printf("\nSession metrics (%.0fs):\n", snap.UptimeSeconds)
	printOp := func(name string, op *metrics.OperationSnapshot) {
		if op == nil || op.Count == 0 {
			return
		}
		fmt.Printf("  %-12s %4d calls, avg %6.1fms, max %5dms", name, op.Count, op.AvgTimeMs, op.MaxTimeMs)
		if op.TotalInputTokens != nil && op.TotalOutputTokens != nil {
			fmt.Printf(", tokens in/out %d/%d", *op.TotalInputTokens, *op.TotalOutputTokens)
		}
		fmt.Println()
	}
	printOp("llm", snap.LLMGenerate)
	printOp("embedding", snap.Embedding)
	printOp("db query", snap.DBQuery)
	printOp("db search", snap.DBSearch)
	printOp("tools", snap.ToolExec)
}
