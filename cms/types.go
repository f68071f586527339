// Package cms defines the content model that AI-generated structured
// results are materialized into: content-type definitions, documents,
// and sub-document components.
package cms

import "time"

// FieldKind enumerates the supported field types.
type FieldKind string

const (
	FieldText      FieldKind = "text"
	FieldRichText  FieldKind = "richtext"
	FieldNumber    FieldKind = "number"
	FieldBoolean   FieldKind = "boolean"
	FieldDate      FieldKind = "date"
	FieldMedia     FieldKind = "media"
	FieldReference FieldKind = "reference"
	FieldComponent FieldKind = "component"
)

// knownKinds is the set of kinds a generated field may carry.
var knownKinds = map[FieldKind]bool{
	FieldText:      true,
	FieldRichText:  true,
	FieldNumber:    true,
	FieldBoolean:   true,
	FieldDate:      true,
	FieldMedia:     true,
	FieldReference: true,
	FieldComponent: true,
}

// Field is one field of a content-type definition.
type Field struct {
	Name        string    `json:"name"`
	Kind        FieldKind `json:"kind"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
}

// ContentType is a content-type definition.
type ContentType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	Fields      []Field   `json:"fields"`
	CreatedAt   time.Time `json:"created_at"`
}

// Component is a sub-document: a named group of field values nested in
// a document.
type Component struct {
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields"`
}

// Document is one content entry of a content type.
type Document struct {
	ID          string         `json:"id"`
	ContentType string         `json:"content_type"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Fields      map[string]any `json:"fields"`
	Components  []Component    `json:"components,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
