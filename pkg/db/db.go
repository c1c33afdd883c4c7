package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// A single writer keeps :memory: databases on one connection.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// CreateTable drops table if present and recreates it with one TEXT column per name.
func CreateTable(db DBExecutor, table string, columns []string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("table name must be non-empty")
	}
	if len(columns) == 0 {
		return fmt.Errorf("table %s needs at least one column", table)
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = QuoteIdent(c) + " TEXT"
	}

	stmts := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", QuoteIdent(table)),
		fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(table), strings.Join(defs, ", ")),
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}
