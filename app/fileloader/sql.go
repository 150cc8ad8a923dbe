package fileloader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// ReadSQL reads the first user table (in creation order) of a SQLite
// database file.
func ReadSQL(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	// Opening a missing path would create an empty database
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var table string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY rowid LIMIT 1`,
	).Scan(&table)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no tables found: %w", ErrNoColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return readSQLTable(ctx, db, table)
}

func readSQLTable(ctx context.Context, db *sql.DB, table string) (*frame.Frame, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	columns := make([][]any, len(names))
	for j := range columns {
		columns[j] = []any{}
	}

	scanned := make([]any, len(names))
	ptrs := make([]any, len(names))
	for j := range scanned {
		ptrs[j] = &scanned[j]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for j, v := range scanned {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			columns[j] = append(columns[j], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return frameFromValues(names, columns)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
