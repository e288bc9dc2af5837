package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/oceanobs/bog/internal/table"
)

// PostgresSink persists result tables as one row per table row in the
// result_tables relation: (artifact, row_index, row JSON). The insert is
// atomic; either every row of the artifact lands or none do.
//
// Expected schema:
//
//	CREATE TABLE result_tables (
//	    artifact  TEXT    NOT NULL,
//	    row_index INTEGER NOT NULL,
//	    row       JSONB   NOT NULL
//	);
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink connects and verifies connectivity.
//
// The connection string should be in the format:
// "host=... port=... user=... password=... dbname=... sslmode=..."
func NewPostgresSink(connStr string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresSink{db: db}, nil
}

func (s *PostgresSink) Save(ctx context.Context, name string, t *table.Table) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // rollback if not committed

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO result_tables (artifact, row_index, row)
        VALUES ($1, $2, $3)
    `)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		record := make(map[string]any, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				record[col] = row[j]
			}
		}
		data, err := json.Marshal(record)
		if err != nil {
			return "", fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, name, i, data); err != nil {
			return "", fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return name, nil
}

// Close releases the underlying connection pool.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}

// Compile-time interface implementation check
var _ Sink = (*PostgresSink)(nil)
