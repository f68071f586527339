// Package scaffold builds the tool declarations, prompts, and output
// writers used to generate CMS content and UI source files.
package scaffold

import (
	"github.com/quillcms/quill/cms"
	"github.com/quillcms/quill/core"
)

// Tool names expected back from the model.
const (
	ToolSuggestContentType = "suggest_content_type"
	ToolGeneratePage       = "generate_page"
	ToolGenerateStories    = "generate_stories"
	ToolGenerateStyles     = "generate_styles"
	ToolGenerateSpec       = "generate_spec"
)

// fieldKindSchema lists the kinds a generated field may declare.
var fieldKindSchema = map[string]any{
	"type": "string",
	"enum": []any{"text", "richtext", "number", "boolean", "date", "media", "reference", "component"},
}

// SuggestContentTypeTool declares the tool for suggesting a content-type
// definition.
func SuggestContentTypeTool() core.ToolDeclaration {
	return core.ToolDeclaration{
		Name:        ToolSuggestContentType,
		Description: "Suggest a CMS content-type definition with a machine name, display name, and a list of typed fields.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []any{"name", "fields"},
			"properties": map[string]any{
				"name":         map[string]any{"type": "string", "description": "Machine name, lowercase, singular (e.g. \"article\")."},
				"display_name": map[string]any{"type": "string"},
				"description":  map[string]any{"type": "string"},
				"fields": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":     "object",
						"required": []any{"name", "kind"},
						"properties": map[string]any{
							"name":        map[string]any{"type": "string"},
							"kind":        fieldKindSchema,
							"required":    map[string]any{"type": "boolean"},
							"description": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}
}

// GeneratePageTool declares the tool for generating one document of the
// given content type. The field properties mirror the content type's
// declared fields.
func GeneratePageTool(ct *cms.ContentType) core.ToolDeclaration {
	fieldProps := map[string]any{}
	for _, f := range ct.Fields {
		fieldProps[f.Name] = map[string]any{
			"type":        jsonType(f.Kind),
			"description": f.Description,
		}
	}
	return core.ToolDeclaration{
		Name:        ToolGeneratePage,
		Description: "Generate a page (document) of the content type \"" + ct.Name + "\" with realistic content for every field.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []any{"title", "fields"},
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"slug":  map[string]any{"type": "string"},
				"fields": map[string]any{
					"type":       "object",
					"properties": fieldProps,
				},
				"components": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"name", "fields"},
						"properties": map[string]any{
							"name":   map[string]any{"type": "string"},
							"fields": map[string]any{"type": "object"},
						},
					},
				},
			},
		},
	}
}

// GenerateStoriesTool declares the tool for generating a UI story file
// for the given content type.
func GenerateStoriesTool(ct *cms.ContentType) core.ToolDeclaration {
	return sourceFileTool(ToolGenerateStories,
		"Generate a component story file (Storybook CSF) rendering the content type \""+ct.Name+"\" with representative sample data.")
}

// GenerateStylesTool declares the tool for generating a stylesheet
// snippet for the given content type.
func GenerateStylesTool(ct *cms.ContentType) core.ToolDeclaration {
	return sourceFileTool(ToolGenerateStyles,
		"Generate a stylesheet snippet (CSS) with class names for every field of the content type \""+ct.Name+"\".")
}

// GenerateSpecTool declares the tool for generating an end-to-end test
// spec for the given content type.
func GenerateSpecTool(ct *cms.ContentType) core.ToolDeclaration {
	return sourceFileTool(ToolGenerateSpec,
		"Generate an end-to-end test spec exercising create, render, and edit flows for the content type \""+ct.Name+"\".")
}

// sourceFileTool is the shared declaration shape for tools that return
// one generated source file.
func sourceFileTool(name, description string) core.ToolDeclaration {
	return core.ToolDeclaration{
		Name:        name,
		Description: description,
		InputSchema: map[string]any{
			"type":     "object",
			"required": []any{"filename", "source"},
			"properties": map[string]any{
				"filename": map[string]any{"type": "string", "description": "Base file name without directories."},
				"source":   map[string]any{"type": "string", "description": "Complete file contents."},
			},
		},
	}
}

// jsonType maps a field kind to its JSON schema type.
func jsonType(k cms.FieldKind) string {
	switch k {
	case cms.FieldNumber:
		return "number"
	case cms.FieldBoolean:
		return "boolean"
	case cms.FieldComponent:
		return "object"
	default:
		return "string"
	}
}
