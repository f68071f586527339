package store

const schema = `
CREATE TABLE IF NOT EXISTS content_types (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	display_name TEXT,
	description TEXT,
	fields TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	content_type TEXT NOT NULL,
	title TEXT NOT NULL,
	slug TEXT NOT NULL,
	fields TEXT NOT NULL,
	components TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY(content_type) REFERENCES content_types(name)
);

CREATE INDEX IF NOT EXISTS idx_documents_content_type ON documents(content_type);
CREATE INDEX IF NOT EXISTS idx_documents_slug ON documents(slug);
`
