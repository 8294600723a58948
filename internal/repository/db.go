package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS ocr_results (
	id                   TEXT PRIMARY KEY,
	image_id             TEXT NOT NULL,
	raw_text             TEXT NOT NULL,
	confidence           REAL NOT NULL,
	parsed_content       TEXT,
	extracted_activities TEXT,
	processing_status    TEXT NOT NULL,
	error_message        TEXT,
	created_at           TIMESTAMP NOT NULL,
	updated_at           TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
	id         TEXT PRIMARY KEY,
	result_id  TEXT NOT NULL REFERENCES ocr_results(id),
	title      TEXT NOT NULL,
	category   TEXT NOT NULL,
	priority   TEXT NOT NULL,
	status     TEXT NOT NULL,
	start_date TEXT,
	due_date   TEXT,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activities_result ON activities(result_id);
CREATE INDEX IF NOT EXISTS idx_activities_start ON activities(start_date);
CREATE INDEX IF NOT EXISTS idx_results_status ON ocr_results(processing_status);
`

// Open opens (creating if necessary) the sqlite database at path and
// initializes the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

// HealthCheck pings the database with a bounded timeout.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}
