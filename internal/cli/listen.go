package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minuted/minuted/internal/live"
	"github.com/minuted/minuted/internal/service"
)

var listenCmd = &cobra.Command{
	Use:   "listen <websocket-url>",
	Short: "Ingest a live transcript feed",
	Long: `Connect to a websocket feed of live transcript chunks and index them
as they arrive. Chunks are embedded and written in small batches; press
Ctrl+C to stop, remaining chunks are flushed before exit.

Examples:
  minuted listen ws://localhost:8765/transcripts`,
	Args: cobra.ExactArgs(1),
	RunE: runListen,
}

func runListen(cmd *cobra.Command, args []string) error {
	if err := initLLM(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	batcher := service.NewBatcher(storeClient, embedder, cfg.BatchSize, logger)
	listener := live.NewListener(args[0], batcher, logger)

	fmt.Printf("Listening on %s, Ctrl+C to stop.\n", args[0])
	if err := listener.Run(ctx); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	fmt.Println("Feed closed.")
	return nil
}
