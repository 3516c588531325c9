package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/minuted/minuted/internal/agent"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question and print the answer",
	Long: `Ask a single question about your meetings and print the answer.

The assistant may call tools (search, metadata lookup, listing) to answer.
Tool progress goes to stderr; the answer streams to stdout.

Examples:
  minuted ask "what did we decide about the launch date?"
  minuted ask "summarize meeting_ab12cd34"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initLLM(); err != nil {
		return err
	}

	var streamed int
	model.SetStreamFunc(func(_ context.Context, chunk []byte) error {
		streamed += len(chunk)
		_, err := os.Stdout.Write(chunk)
		return err
	})

	a := newAgent()
	sessionID := uuid.New().String()[:8]

	answer, err := a.Respond(context.Background(), sessionID, args[0], nil, func(e agent.Event) {
		if e.Kind == agent.EventToolStarted {
			fmt.Fprintf(os.Stderr, "[%s] %s...\n", e.Category, e.Tool)
		}
	})
	if err != nil {
		return err
	}

	// The final answer usually arrives via streaming; print it only when
	// the provider sent no stream chunks.
	if streamed == 0 {
		fmt.Println(answer)
	} else {
		fmt.Println()
	}
	return nil
}
