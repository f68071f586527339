// Package store persists materialized content entities in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quillcms/quill/cms"
)

// DB wraps *sql.DB for content storage. Schema is owned by this package.
type DB struct {
	*sql.DB
}

// Open opens the SQLite database at path and applies the schema.
// Creates the file if missing.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &DB{db}, nil
}

// SaveContentType inserts or replaces a content-type definition, keyed
// by name.
func (db *DB) SaveContentType(ctx context.Context, ct *cms.ContentType) error {
	fields, err := json.Marshal(ct.Fields)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO content_types (id, name, display_name, description, fields, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET display_name = excluded.display_name,
		   description = excluded.description, fields = excluded.fields`,
		ct.ID, ct.Name, ct.DisplayName, ct.Description, string(fields), ct.CreatedAt,
	)
	return err
}

// GetContentType retrieves a content type by name. Returns nil, nil when
// absent.
func (db *DB) GetContentType(ctx context.Context, name string) (*cms.ContentType, error) {
	var ct cms.ContentType
	var fields string
	err := db.QueryRowContext(ctx,
		`SELECT id, name, display_name, description, fields, created_at FROM content_types WHERE name = ?`,
		name,
	).Scan(&ct.ID, &ct.Name, &ct.DisplayName, &ct.Description, &fields, &ct.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fields), &ct.Fields); err != nil {
		return nil, fmt.Errorf("decoding fields for %q: %w", name, err)
	}
	return &ct, nil
}

// ListContentTypes returns all content-type definitions ordered by name.
func (db *DB) ListContentTypes(ctx context.Context) ([]cms.ContentType, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, display_name, description, fields, created_at FROM content_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []cms.ContentType
	for rows.Next() {
		var ct cms.ContentType
		var fields string
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.DisplayName, &ct.Description, &fields, &ct.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fields), &ct.Fields); err != nil {
			return nil, fmt.Errorf("decoding fields for %q: %w", ct.Name, err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// SaveDocument inserts a document.
func (db *DB) SaveDocument(ctx context.Context, doc *cms.Document) error {
	fields, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}
	components, err := json.Marshal(doc.Components)
	if err != nil {
		return fmt.Errorf("encoding components: %w", err)
	}
	created := doc.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO documents (id, content_type, title, slug, fields, components, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.ContentType, doc.Title, doc.Slug, string(fields), string(components), created,
	)
	return err
}

// ListDocuments returns the documents of one content type, newest first.
func (db *DB) ListDocuments(ctx context.Context, contentType string) ([]cms.Document, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, content_type, title, slug, fields, components, created_at
		 FROM documents WHERE content_type = ? ORDER BY created_at DESC`,
		contentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []cms.Document
	for rows.Next() {
		var doc cms.Document
		var fields, components string
		if err := rows.Scan(&doc.ID, &doc.ContentType, &doc.Title, &doc.Slug, &fields, &components, &doc.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fields), &doc.Fields); err != nil {
			return nil, fmt.Errorf("decoding fields for %q: %w", doc.ID, err)
		}
		if components != "" && components != "null" {
			if err := json.Unmarshal([]byte(components), &doc.Components); err != nil {
				return nil, fmt.Errorf("decoding components for %q: %w", doc.ID, err)
			}
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}
