// Package commands implements the quill CLI.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillcms/quill/cms"
	"github.com/quillcms/quill/cms/store"
	"github.com/quillcms/quill/config"
	"github.com/quillcms/quill/core"
	"github.com/quillcms/quill/providers"

	// Register the provider wire protocols.
	_ "github.com/quillcms/quill/providers/anthropic"
	_ "github.com/quillcms/quill/providers/openai"
)

var (
	configDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "AI-assisted content scaffolding for a headless CMS",
	Long: `Quill generates CMS content types, pages, and UI source files by asking
a generative-AI provider to call structured tools and materializing the
results.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default: .quill or ~/.config/quill)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every AI attempt")
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// dir returns the effective config directory.
func dir() string {
	if configDir != "" {
		return configDir
	}
	return config.DefaultDir()
}

// newLogger builds the CLI logger. Attempt-level detail only shows with
// --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runtime bundles the collaborators a generate command needs.
type runtime struct {
	settings *config.Settings
	client   *core.Client
	db       *store.DB
	mat      *cms.Materializer
	logger   *slog.Logger
}

// newRuntime loads settings and wires the AI client, content store, and
// materializer.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	logger := newLogger()

	settings, err := config.Load(dir())
	if err != nil {
		return nil, err
	}

	client, err := providers.NewClient(
		settings.ProviderConfig(dir()),
		core.WithObserver(core.NewSlogObserver(logger)),
	)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cmd.Context(), settings.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open content store: %w", err)
	}

	return &runtime{
		settings: settings,
		client:   client,
		db:       db,
		mat:      cms.NewMaterializer(logger),
		logger:   logger,
	}, nil
}

func (r *runtime) close() {
	if r.db != nil {
		r.db.Close()
	}
}
