package cms

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/quillcms/quill/core"
)

// Materializer turns structured AI results into content entities.
// Field-presence checking against the declared tool schema happens here,
// downstream of the invocation core.
type Materializer struct {
	logger *slog.Logger
}

// NewMaterializer creates a Materializer. A nil logger discards
// diagnostics.
func NewMaterializer(logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Materializer{logger: logger}
}

// ValidateResult checks a structured result against the tool's declared
// input schema.
func (m *Materializer) ValidateResult(tool core.ToolDeclaration, result core.StructuredResult) error {
	schemaJSON, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return fmt.Errorf("marshal input schema: %w", err)
	}
	sch, err := jsonschema.CompileString(tool.Name+".json", string(schemaJSON))
	if err != nil {
		return fmt.Errorf("compile input schema for %q: %w", tool.Name, err)
	}
	if err := sch.Validate(map[string]any(result)); err != nil {
		return fmt.Errorf("result does not match %q schema: %w", tool.Name, err)
	}
	return nil
}

// ContentType materializes a content-type definition from a structured
// result shaped like SuggestContentTypeTool's input schema.
func (m *Materializer) ContentType(result core.StructuredResult) (*ContentType, error) {
	name, err := stringField(result, "name")
	if err != nil {
		return nil, err
	}

	ct := &ContentType{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayName: optionalString(result, "display_name"),
		Description: optionalString(result, "description"),
		CreatedAt:   time.Now().UTC(),
	}
	if ct.DisplayName == "" {
		ct.DisplayName = name
	}

	rawFields, ok := result["fields"].([]any)
	if !ok || len(rawFields) == 0 {
		return nil, fmt.Errorf("content type %q has no fields", name)
	}
	for i, rf := range rawFields {
		fm, ok := rf.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("content type %q field %d is not an object", name, i)
		}
		fieldName, err := stringField(fm, "name")
		if err != nil {
			return nil, fmt.Errorf("content type %q field %d: %w", name, i, err)
		}
		kind := FieldKind(optionalString(fm, "kind"))
		if !knownKinds[kind] {
			m.logger.Warn("unknown field kind, falling back to text",
				"content_type", name, "field", fieldName, "kind", string(kind))
			kind = FieldText
		}
		required, _ := fm["required"].(bool)
		ct.Fields = append(ct.Fields, Field{
			Name:        fieldName,
			Kind:        kind,
			Required:    required,
			Description: optionalString(fm, "description"),
		})
	}
	return ct, nil
}

// Document materializes a document of the given content type from a
// structured result shaped like GeneratePageTool's input schema.
func (m *Materializer) Document(ct *ContentType, result core.StructuredResult) (*Document, error) {
	title, err := stringField(result, "title")
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ID:          uuid.NewString(),
		ContentType: ct.Name,
		Title:       title,
		Slug:        optionalString(result, "slug"),
		Fields:      map[string]any{},
		CreatedAt:   time.Now().UTC(),
	}
	if doc.Slug == "" {
		doc.Slug = Slugify(title)
	}

	if fields, ok := result["fields"].(map[string]any); ok {
		known := map[string]bool{}
		for _, f := range ct.Fields {
			known[f.Name] = true
		}
		for k, v := range fields {
			if !known[k] {
				m.logger.Warn("dropping field not declared on content type",
					"content_type", ct.Name, "field", k)
				continue
			}
			doc.Fields[k] = v
		}
	}

	if comps, ok := result["components"].([]any); ok {
		for i, rc := range comps {
			cm, ok := rc.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("document %q component %d is not an object", title, i)
			}
			compName, err := stringField(cm, "name")
			if err != nil {
				return nil, fmt.Errorf("document %q component %d: %w", title, i, err)
			}
			compFields, _ := cm["fields"].(map[string]any)
			doc.Components = append(doc.Components, Component{Name: compName, Fields: compFields})
		}
	}
	return doc, nil
}

// Slugify converts a title into a URL-safe slug.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func stringField(m map[string]any, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("missing required string field %q", key)
	}
	return s, nil
}

func optionalString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
