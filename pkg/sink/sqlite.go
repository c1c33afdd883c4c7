package sink

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/japaniel/clse/pkg/db"
)

const (
	defaultTable     = "entries"
	defaultBatchSize = 500
)

// SQLite writes the table into a fresh SQLite database, committing every batchSize rows.
// The previous database at path is only replaced once the header has been accepted.
type SQLite struct {
	path      string
	conn      *sql.DB
	table     string
	batchSize int

	tx      *sql.Tx
	pending int
}

// NewSQLite returns a sink that replaces any database at path with a new one.
func NewSQLite(path, table string, batchSize int) (*SQLite, error) {
	if table == "" {
		table = defaultTable
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &SQLite{path: path, table: table, batchSize: batchSize}, nil
}

func (s *SQLite) WriteHeader(columns []string) error {
	cols, err := sqliteColumns(columns)
	if err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale output: %w", err)
	}
	conn, err := db.Open(s.path)
	if err != nil {
		return fmt.Errorf("open sqlite output: %w", err)
	}
	s.conn = conn
	return db.CreateTable(s.conn, s.table, cols)
}

// sqliteColumns names unnamed columns column<N> and rejects names SQLite
// would treat as the same column.
func sqliteColumns(columns []string) ([]string, error) {
	out := make([]string, len(columns))
	seen := make(map[string]string, len(columns))
	for i, c := range columns {
		if c == "" {
			c = fmt.Sprintf("column%d", i+1)
		}
		key := foldASCII(c)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q and %q", ErrDuplicateColumn, prev, c)
		}
		seen[key] = c
		out[i] = c
	}
	return out, nil
}

// foldASCII lowercases ASCII letters only, matching SQLite identifier comparison.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

func (s *SQLite) WriteRow(cells []string) error {
	if s.conn == nil {
		return fmt.Errorf("sqlite sink: row written before header")
	}
	if s.tx == nil {
		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin batch tx: %w", err)
		}
		s.tx = tx
	}

	if err := db.InsertRow(s.tx, s.table, cells); err != nil {
		return err
	}
	s.pending++
	if s.pending >= s.batchSize {
		return s.commit()
	}
	return nil
}

func (s *SQLite) commit() error {
	if s.tx == nil {
		return nil
	}
	n := s.pending
	err := s.tx.Commit()
	s.tx, s.pending = nil, 0
	if err != nil {
		return fmt.Errorf("failed to commit batch (%d rows): %w", n, err)
	}
	return nil
}

// Close commits any pending rows and closes the database.
func (s *SQLite) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.commit()
	if cerr := s.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
