package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gbp-auditor/config"
	"gbp-auditor/gemini"
	"gbp-auditor/models"
	"gbp-auditor/services"
	"gbp-auditor/storage"
	"gbp-auditor/utils"
)

var version = "dev"

var (
	verbose bool

	cfg    *config.Config
	logger *utils.Logger

	// newGenerator is swapped out in tests.
	newGenerator = func(ctx context.Context, cfg *config.Config, logger *utils.Logger) (services.Generator, error) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			BaseURL:     cfg.GeminiBaseURL,
			RateLimitMs: cfg.RateLimitMs,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
)

var rootCmd = &cobra.Command{
	Use:   "gbp-auditor",
	Short: "Generate Google Business Profile audits and keep a local submission history",
	Long: `gbp-auditor asks a Gemini model for a scored, hypothetical audit of a
business's Google Business Profile, renders it in the terminal and can turn it
into a plain-text email summary.

The in-progress form is kept as a draft between runs, and every successful
submission is appended to a local history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		logger = utils.NewLogger(cfg.Debug || verbose)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gbp-auditor %s (model %s)\n", version, cfg.GeminiModel)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(auditCmd, draftCmd, historyCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		os.Exit(1)
	}
}

// userMessage hides generation internals behind the generic busy message.
func userMessage(err error) string {
	var gerr *models.GenerationError
	if errors.As(err, &gerr) {
		return gerr.UserMessage()
	}
	return err.Error()
}

// openStore opens the configured backend and wraps the draft and history views over it.
func openStore() (storage.Store, *services.DraftStore, *services.HistoryLog, error) {
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return store, services.NewDraftStore(store, logger), services.NewHistoryLog(store, logger), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
