// Package cli provides the command-line interface for minuted.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/minuted/minuted/internal/agent"
	"github.com/minuted/minuted/internal/chunker"
	"github.com/minuted/minuted/internal/config"
	"github.com/minuted/minuted/internal/docstore"
	"github.com/minuted/minuted/internal/llm"
	"github.com/minuted/minuted/internal/metrics"
	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/service"
	"github.com/minuted/minuted/internal/store"
	"github.com/minuted/minuted/internal/tools"
	"github.com/minuted/minuted/internal/transcribe"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, logger and store client
	cfg         config.Config
	logger      *slog.Logger
	closeLogger func() error
	collector   *metrics.Collector
	storeClient *store.Client

	// Lazy-initialized LLM components
	embedder *llm.Embedder
	model    *llm.Model

	// Per-session workflow state, shared by chat and ask
	sessions = models.NewSessionStore()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "minuted",
	Short: "Meeting transcript search and conversational assistant",
	Long: `Minuted turns meeting recordings and transcripts into a searchable
knowledge base: transcribe with speaker identification, chunk and embed
into a vector database, then search or chat about what was said.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip collaborator setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, closeLogger = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		collector = metrics.NewCollector()

		// The store is required; refusing to start beats serving
		// half-initialized turns.
		ctx := context.Background()
		storeClient, err = store.NewClient(ctx, store.Config{
			URL:                cfg.SurrealDBURL,
			Namespace:          cfg.SurrealDBNamespace,
			Database:           cfg.SurrealDBDatabase,
			Username:           cfg.SurrealDBUser,
			Password:           cfg.SurrealDBPass,
			AuthLevel:          cfg.SurrealDBAuthLevel,
			EmbeddingDimension: cfg.EmbeddingDimension,
		}, logger, collector)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		if err := storeClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if storeClient != nil {
			if err := storeClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
		if closeLogger != nil {
			if err := closeLogger(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// initLLM lazily constructs the embedder and chat model. Commands that only
// touch the store never pay for it.
func initLLM() error {
	if embedder != nil {
		return nil
	}
	var err error
	embedder, err = llm.NewEmbedder(cfg, collector)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}
	model, err = llm.NewModel(cfg, collector)
	if err != nil {
		return fmt.Errorf("init model: %w", err)
	}
	return nil
}

func chunkOptions() chunker.Options {
	return chunker.Options{
		MinSize: cfg.MinChunkSize,
		MaxSize: cfg.MaxChunkSize,
		Overlap: cfg.ChunkOverlap,
	}
}

func newIngestor() *service.Ingestor {
	return service.NewIngestor(storeClient, embedder, chunkOptions(), logger)
}

// newRegistry wires the full tool set. Requires initLLM.
func newRegistry() *tools.Registry {
	deps := &tools.Dependencies{
		Store:       storeClient,
		Embedder:    embedder,
		Extractor:   llm.NewExtractor(model),
		Transcriber: transcribe.NewClient(cfg.TranscribeURL),
		Ingestor:    newIngestor(),
		Sessions:    sessions,
		Metrics:     collector,
		Logger:      logger,
	}
	if cfg.NotionToken != "" {
		deps.DocStore = docstore.NewNotionClient(cfg.NotionToken)
	}

	registry := tools.NewRegistry(logger, collector)
	tools.RegisterAll(registry, deps)
	return registry
}

// newAgent builds the conversational agent. Requires initLLM.
func newAgent() *agent.Agent {
	return agent.New(model, newRegistry(), cfg.MaxToolRounds, logger)
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(meetingsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("minuted %s\n", Version)
	},
}
