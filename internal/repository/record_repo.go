package repository

import (
	"context"
	"fmt"

	"screenbot/internal/model"
)

// RowStore is the append-only persistence of completed sessions.
// Rows are read back loosely typed, the way a spreadsheet returns them.
type RowStore interface {
	AppendRow(ctx context.Context, record *model.SessionRecord) error
	// FetchAllRows returns every row in insertion order; empty when the store is empty
	FetchAllRows(ctx context.Context) ([]model.RecordRow, error)
	Close(ctx context.Context) error
}

// StoreError wraps any I/O, auth or quota failure of the row store
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("row store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
