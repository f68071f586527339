package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quillcms/quill/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set the AI provider, model, and API key",
	Long: `Interactively configure Quill. The API key is read without echo and
stored in a credentials file readable only by the current user; set
ANTHROPIC_API_KEY / OPENAI_API_KEY instead to keep keys out of the
filesystem.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(dir())
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	provider, err := promptLine(reader, fmt.Sprintf("Provider (anthropic/openai) [%s]: ", settings.Provider))
	if err != nil {
		return err
	}
	if provider != "" {
		if provider != "anthropic" && provider != "openai" {
			return fmt.Errorf("unsupported provider %q (use 'anthropic' or 'openai')", provider)
		}
		settings.Provider = provider
		settings.Model = "" // re-resolve the default model for the new provider
	}

	model, err := promptLine(reader, fmt.Sprintf("Model [%s]: ", settings.Model))
	if err != nil {
		return err
	}
	if model != "" {
		settings.Model = model
	}

	fmt.Printf("API key for %s (leave empty to keep current): ", settings.Provider)
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}

	if err := settings.Save(dir()); err != nil {
		return err
	}
	if key := strings.TrimSpace(string(keyBytes)); key != "" {
		if err := config.SaveAPIKey(dir(), settings.Provider, key); err != nil {
			return err
		}
	}

	// Reload so defaults (e.g. model for a switched provider) land in the file.
	settings, err = config.Load(dir())
	if err != nil {
		return err
	}
	if err := settings.Save(dir()); err != nil {
		return err
	}

	fmt.Printf("Configured %s with model %s\n", settings.Provider, settings.Model)
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
