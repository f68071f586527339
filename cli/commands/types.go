package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Inspect stored content types",
}

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored content types",
	Args:  cobra.NoArgs,
	RunE:  runTypesList,
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Inspect stored pages",
}

var pagesListCmd = &cobra.Command{
	Use:   "list <content-type>",
	Short: "List stored pages of a content type",
	Args:  cobra.ExactArgs(1),
	RunE:  runPagesList,
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.AddCommand(typesListCmd)
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.AddCommand(pagesListCmd)
}

func runTypesList(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	types, err := rt.db.ListContentTypes(cmd.Context())
	if err != nil {
		return err
	}
	if len(types) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No content types yet. Create one with 'quill generate content-type'.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISPLAY NAME\tFIELDS")
	for _, ct := range types {
		fmt.Fprintf(w, "%s\t%s\t%d\n", ct.Name, ct.DisplayName, len(ct.Fields))
	}
	return w.Flush()
}

func runPagesList(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if _, err := requireContentType(cmd, rt, args[0]); err != nil {
		return err
	}
	docs, err := rt.db.ListDocuments(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No pages of %q yet. Create one with 'quill generate page'.\n", args[0])
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tSLUG\tCREATED")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", doc.Title, doc.Slug, doc.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
