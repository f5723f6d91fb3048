package db

type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	{
		name: "create documents table",
		sql: `
			CREATE TABLE IF NOT EXISTS documents (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				blob_key TEXT NOT NULL UNIQUE,
				size_bytes INTEGER NOT NULL,
				content_type TEXT NOT NULL DEFAULT 'application/pdf',
				visibility TEXT NOT NULL CHECK (visibility IN ('public', 'private')),
				uploader_ip TEXT NOT NULL DEFAULT '',
				uploaded_at INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_documents_public ON documents(visibility, uploaded_at DESC);
		`,
	},
	{
		name: "add download counter",
		sql: `
			ALTER TABLE documents ADD COLUMN download_count INTEGER NOT NULL DEFAULT 0;
		`,
	},
}
