package storage

import (
	"context"
	"fmt"
	"log"

	"traqcheck/internal/dbx"
)

// schemaStatements create the three core tables. Statements are applied
// one at a time because the remote backend executes single statements.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		company TEXT,
		designation TEXT,
		skills TEXT,
		experience_years INTEGER DEFAULT 0,
		resume_path TEXT,
		confidence_scores TEXT,
		status TEXT DEFAULT 'PARSED',
		document_status TEXT DEFAULT 'NOT_REQUESTED',
		document_requested_at TEXT,
		documents_submitted_at TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_candidates_email_nocase
		ON candidates (lower(email))`,
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL REFERENCES candidates(id),
		document_type TEXT NOT NULL,
		file_path TEXT NOT NULL,
		file_name TEXT NOT NULL,
		file_size INTEGER DEFAULT 0,
		verification_status TEXT DEFAULT 'PENDING',
		uploaded_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_candidate
		ON documents (candidate_id)`,
	`CREATE TABLE IF NOT EXISTS agent_logs (
		id TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL REFERENCES candidates(id),
		action TEXT NOT NULL,
		tool_used TEXT,
		input TEXT,
		output TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
}

// InitSchema creates the tables when they do not exist yet. Safe to run
// on every startup.
func InitSchema(ctx context.Context, db *dbx.DB) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("storage: open connection: %w", err)
	}
	defer conn.Close()

	for _, stmt := range schemaStatements {
		if _, err := conn.Execute(ctx, stmt); err != nil {
			return fmt.Errorf("storage: apply schema: %w", err)
		}
	}
	if err := conn.Commit(); err != nil {
		return fmt.Errorf("storage: commit schema: %w", err)
	}

	log.Printf("storage: schema ready (%s backend)", db.Kind())
	return nil
}
