// Package diagnostics inspects a SQLite database file without going through
// the application's storage layer.
package diagnostics

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ComplaintsTable is the table whose schema the report prints.
const ComplaintsTable = "complaints"

var ErrDatabaseMissing = errors.New("database file not found")

// Column is one row of PRAGMA table_info.
type Column struct {
	CID     int
	Name    string
	Type    string
	NotNull bool
	Default sql.NullString
	PK      int
}

// Report describes what was found on disk.
type Report struct {
	Path    string
	Exists  bool
	Tables  []string
	Columns []Column // empty when the complaints table is missing
}

// HasComplaints reports whether the complaints table exists.
func (r Report) HasComplaints() bool {
	for _, t := range r.Tables {
		if t == ComplaintsTable {
			return true
		}
	}
	return false
}

// Inspect opens an existing path and lists its tables and the complaints schema.
func Inspect(path string) (Report, error) {
	report := Report{Path: path}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, fmt.Errorf("%w: %s", ErrDatabaseMissing, path)
		}
		return report, err
	}
	report.Exists = true

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return report, fmt.Errorf("open %s: %w", path, err)
	}
	defer conn.Close()

	rows, err := conn.Query("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return report, fmt.Errorf("list tables: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return report, err
		}
		report.Tables = append(report.Tables, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return report, err
	}

	if !report.HasComplaints() {
		return report, nil
	}

	rows, err = conn.Query("PRAGMA table_info('" + ComplaintsTable + "')")
	if err != nil {
		return report, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.CID, &col.Name, &col.Type, &col.NotNull, &col.Default, &col.PK); err != nil {
			return report, err
		}
		report.Columns = append(report.Columns, col)
	}
	return report, rows.Err()
}

// Write prints the report in the same shape the old check script did.
func (r Report) Write(w io.Writer) {
	fmt.Fprintln(w, "DB path:", r.Path)
	fmt.Fprintln(w, "Exists:", r.Exists)
	if !r.Exists {
		return
	}
	fmt.Fprintln(w, "Tables:", r.Tables)
	if !r.HasComplaints() {
		fmt.Fprintf(w, "Table `%s` not found\n", ComplaintsTable)
		return
	}
	fmt.Fprintf(w, "%s schema:\n", ComplaintsTable)
	for _, c := range r.Columns {
		fmt.Fprintf(w, "(%d, %q, %q, notnull=%t, pk=%d)\n", c.CID, c.Name, c.Type, c.NotNull, c.PK)
	}
}
