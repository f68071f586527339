package scaffold

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quillcms/quill/cms"
)

// ContentTypePrompt assembles the prompt for suggesting a new content
// type, embedding the existing definitions so the model avoids
// duplicates and reuses naming conventions.
func ContentTypePrompt(description string, existing []cms.ContentType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design a CMS content type for the following need:\n\n%s\n", strings.TrimSpace(description))
	if len(existing) > 0 {
		b.WriteString("\nThe CMS already defines these content types; do not duplicate them and follow their naming style:\n\n")
		b.WriteString(schemaJSON(existing))
		b.WriteString("\n")
	}
	b.WriteString("\nCall the " + ToolSuggestContentType + " tool with the definition.")
	return b.String()
}

// PagePrompt assembles the prompt for generating a document of ct.
func PagePrompt(ct *cms.ContentType, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a page of the content type %q:\n\n%s\n", ct.Name, strings.TrimSpace(description))
	b.WriteString("\nThe content type is defined as:\n\n")
	b.WriteString(schemaJSON(ct))
	b.WriteString("\n\nFill every required field with realistic content. Call the " + ToolGeneratePage + " tool with the page.")
	return b.String()
}

// SourcePrompt assembles the prompt for the source-file tools (stories,
// styles, specs).
func SourcePrompt(ct *cms.ContentType, tool string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The CMS content type %q is defined as:\n\n", ct.Name)
	b.WriteString(schemaJSON(ct))
	b.WriteString("\n\nCall the " + tool + " tool with a complete, self-contained file.")
	return b.String()
}

// schemaJSON renders a value as indented JSON for prompt embedding.
func schemaJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
