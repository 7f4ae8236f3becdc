package mockclickhouseconnection

import (
	"context"

	"eduexpress-backend/internal/db"

	"github.com/stretchr/testify/mock"
)

type Connection struct {
	mock.Mock
}

var _ db.Conn = &Connection{}

func (m *Connection) Exec(ctx context.Context, query string, args ...any) error {
	callArgs := []any{ctx, query}
	callArgs = append(callArgs, args...)
	return m.Called(callArgs...).Error(0)
}

func (m *Connection) PrepareBatch(ctx context.Context, query string) (db.Batch, error) {
	mockArgs := m.Called(ctx, query)
	if v := mockArgs.Get(0); v != nil {
		if batch, ok := v.(db.Batch); ok {
			return batch, mockArgs.Error(1)
		}
	}
	return nil, mockArgs.Error(1)
}

func (m *Connection) Query(ctx context.Context, query string, args ...any) (db.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	if v := mockArgs.Get(0); v != nil {
		if rows, ok := v.(db.Rows); ok {
			return rows, mockArgs.Error(1)
		}
	}
	return nil, mockArgs.Error(1)
}

func (m *Connection) Ping(ctx context.Context) error {
	mockArgs := m.Called(ctx)
	return mockArgs.Error(0)
}

func (m *Connection) Close() error {
	mockArgs := m.Called()
	return mockArgs.Error(0)
}

// Rows replays a fixed result set. Each row is a slice of values copied into Scan targets.
type Rows struct {
	Data    [][]any
	ScanErr error
	IterErr error
	Closed  bool
	pos     int
}

var _ db.Rows = &Rows{}

func (r *Rows) Next() bool {
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.ScanErr != nil {
		return r.ScanErr
	}
	row := r.Data[r.pos-1]
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			*d = row[i].(string)
		case *uint64:
			*d = row[i].(uint64)
		}
	}
	return nil
}

func (r *Rows) Err() error { return r.IterErr }

func (r *Rows) Close() error {
	r.Closed = true
	return nil
}
