package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// QuoteIdent quotes a table or column name for SQLite.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// InsertQuery returns a parameterised INSERT for n columns of table.
func InsertQuery(table string, n int) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", QuoteIdent(table), marks)
}

// InsertRow appends one row of cells to table.
func InsertRow(db DBExecutor, table string, cells []string) error {
	if len(cells) == 0 {
		return fmt.Errorf("row must have at least one cell")
	}
	if _, err := db.Exec(InsertQuery(table, len(cells)), cellArgs(cells)...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// Columns returns the column names of table in declaration order.
func Columns(db DBExecutor, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// ReadRows returns every row of table in insertion order.
func ReadRows(db DBExecutor, table string) ([][]string, error) {
	cols, err := Columns(db, table)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", QuoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = v.String
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func cellArgs(cells []string) []interface{} {
	args := make([]interface{}, len(cells))
	for i, c := range cells {
		args[i] = c
	}
	return args
}
