package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"screenbot/internal/model"
)

type sqliteRecordRepo struct {
	db *sql.DB
}

// NewSQLiteRecordRepo opens (and migrates) a local row store file
func NewSQLiteRecordRepo(path string) (RowStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storeErr("open", err)
	}
	// one writer keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	repo := &sqliteRecordRepo{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *sqliteRecordRepo) migrate() error {
	cols := make([]string, 0, len(model.RecordHeader))
	for _, col := range model.RecordHeader {
		cols = append(cols, col+" TEXT NOT NULL DEFAULT ''")
	}
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS session_records (id INTEGER PRIMARY KEY AUTOINCREMENT, %s)",
		strings.Join(cols, ", "),
	)
	_, err := r.db.Exec(stmt)
	return storeErr("migrate", err)
}

func (r *sqliteRecordRepo) AppendRow(ctx context.Context, record *model.SessionRecord) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(model.RecordHeader)), ", ")
	stmt := fmt.Sprintf("INSERT INTO session_records (%s) VALUES (%s)",
		strings.Join(model.RecordHeader, ", "), placeholders)

	values := record.Values()
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	_, err := r.db.ExecContext(ctx, stmt, args...)
	return storeErr("append", err)
}

func (r *sqliteRecordRepo) FetchAllRows(ctx context.Context) ([]model.RecordRow, error) {
	stmt := fmt.Sprintf("SELECT %s FROM session_records ORDER BY id",
		strings.Join(model.RecordHeader, ", "))
	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, storeErr("fetch", err)
	}
	defer rows.Close()

	var out []model.RecordRow
	for rows.Next() {
		values := make([]string, len(model.RecordHeader))
		dest := make([]interface{}, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, storeErr("fetch", err)
		}
		out = append(out, model.RowFromValues(model.RecordHeader, values))
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("fetch", err)
	}
	return out, nil
}

func (r *sqliteRecordRepo) Close(ctx context.Context) error {
	return r.db.Close()
}
