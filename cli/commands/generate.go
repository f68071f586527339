package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillcms/quill/cms"
	"github.com/quillcms/quill/core"
	"github.com/quillcms/quill/scaffold"
)

var (
	generateDryRun bool
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate CMS content and UI source files",
}

var generateContentTypeCmd = &cobra.Command{
	Use:   "content-type <description>",
	Short: "Generate a content-type definition from a description",
	Long: `Ask the configured AI provider to design a content type and store it.

Examples:
  quill generate content-type "a recipe with ingredients and cooking steps"
  quill generate content-type "an event with date and venue" --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerateContentType,
}

var generatePageCmd = &cobra.Command{
	Use:   "page <content-type> <description>",
	Short: "Generate a page of an existing content type",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runGeneratePage,
}

var generateStoriesCmd = &cobra.Command{
	Use:   "stories <content-type>",
	Short: "Generate a component story file for a content type",
	Args:  cobra.ExactArgs(1),
	RunE:  sourceFileRunner(scaffold.GenerateStoriesTool, scaffold.ToolGenerateStories, (*scaffold.Writer).WriteStoryFile),
}

var generateStylesCmd = &cobra.Command{
	Use:   "styles <content-type>",
	Short: "Generate a stylesheet snippet for a content type",
	Args:  cobra.ExactArgs(1),
	RunE:  sourceFileRunner(scaffold.GenerateStylesTool, scaffold.ToolGenerateStyles, (*scaffold.Writer).WriteStyleSnippet),
}

var generateSpecCmd = &cobra.Command{
	Use:   "spec <content-type>",
	Short: "Generate an end-to-end test spec for a content type",
	Args:  cobra.ExactArgs(1),
	RunE:  sourceFileRunner(scaffold.GenerateSpecTool, scaffold.ToolGenerateSpec, (*scaffold.Writer).WriteSpecFile),
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.AddCommand(generateContentTypeCmd)
	generateCmd.AddCommand(generatePageCmd)
	generateCmd.AddCommand(generateStoriesCmd)
	generateCmd.AddCommand(generateStylesCmd)
	generateCmd.AddCommand(generateSpecCmd)

	generateCmd.PersistentFlags().BoolVar(&generateDryRun, "dry-run", false, "Print the generated result without storing or writing it")
	generateCmd.PersistentFlags().StringVar(&generateOutput, "output", "", "Output directory for generated files (default: from config)")
}

func runGenerateContentType(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	existing, err := rt.db.ListContentTypes(cmd.Context())
	if err != nil {
		return err
	}

	tool := scaffold.SuggestContentTypeTool()
	result, err := rt.client.Invoke(tool).
		Prompt(scaffold.ContentTypePrompt(strings.Join(args, " "), existing)).
		Do(cmd.Context())
	if err != nil {
		return generateError(err)
	}

	if err := rt.mat.ValidateResult(tool, result); err != nil {
		return err
	}
	ct, err := rt.mat.ContentType(result)
	if err != nil {
		return err
	}

	if generateDryRun {
		return printJSON(ct)
	}
	if err := rt.db.SaveContentType(cmd.Context(), ct); err != nil {
		return err
	}
	fmt.Printf("Created content type %q with %d field(s)\n", ct.Name, len(ct.Fields))
	return nil
}

func runGeneratePage(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	ct, err := requireContentType(cmd, rt, args[0])
	if err != nil {
		return err
	}

	tool := scaffold.GeneratePageTool(ct)
	result, err := rt.client.Invoke(tool).
		Prompt(scaffold.PagePrompt(ct, strings.Join(args[1:], " "))).
		Do(cmd.Context())
	if err != nil {
		return generateError(err)
	}

	if err := rt.mat.ValidateResult(tool, result); err != nil {
		return err
	}
	doc, err := rt.mat.Document(ct, result)
	if err != nil {
		return err
	}

	if generateDryRun {
		return printJSON(doc)
	}
	if err := rt.db.SaveDocument(cmd.Context(), doc); err != nil {
		return err
	}
	fmt.Printf("Created page %q (%s)\n", doc.Title, doc.Slug)
	return nil
}

// sourceFileRunner builds the RunE for the stories/styles/spec commands,
// which differ only in tool declaration and output writer.
func sourceFileRunner(
	toolFor func(*cms.ContentType) core.ToolDeclaration,
	toolName string,
	write func(*scaffold.Writer, core.StructuredResult) (string, error),
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		ct, err := requireContentType(cmd, rt, args[0])
		if err != nil {
			return err
		}

		tool := toolFor(ct)
		result, err := rt.client.Invoke(tool).
			Prompt(scaffold.SourcePrompt(ct, toolName)).
			Do(cmd.Context())
		if err != nil {
			return generateError(err)
		}

		if generateDryRun {
			return printJSON(result)
		}

		outDir := generateOutput
		if outDir == "" {
			outDir = rt.settings.OutputDir
		}
		path, err := write(scaffold.NewWriter(outDir), result)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}
}

func requireContentType(cmd *cobra.Command, rt *runtime, name string) (*cms.ContentType, error) {
	ct, err := rt.db.GetContentType(cmd.Context(), name)
	if err != nil {
		return nil, err
	}
	if ct == nil {
		return nil, fmt.Errorf("unknown content type %q (run 'quill types list')", name)
	}
	return ct, nil
}

// generateError maps an invocation failure to a user-facing message.
func generateError(err error) error {
	var f *core.InvocationFailure
	if !errors.As(err, &f) {
		return err
	}
	switch f.Reason {
	case core.ReasonPrecondition:
		return fmt.Errorf("no API key configured: run 'quill configure' or set the provider's key env var")
	case core.ReasonExhausted:
		return fmt.Errorf("the model did not produce a usable result after %d attempt(s): try again or rephrase the description", f.Attempts)
	default:
		return fmt.Errorf("AI generation failed: %s", f.Message)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
