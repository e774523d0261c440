package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RequestScope wraps the connection acquired for one request. Every
// repository call inside the request runs on this connection, so a
// request never holds more than one pool slot.
type RequestScope struct {
	Conn *pgxpool.Conn
}

// Close releases the connection back to the pool.
// This MUST be called when the request finishes.
func (s *RequestScope) Close() {
	if s.Conn == nil {
		return
	}
	s.Conn.Release()
}

// Acquire obtains a connection for the duration of one request.
// The returned RequestScope MUST be closed with defer scope.Close().
func (db *DB) Acquire(ctx context.Context) (*RequestScope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &RequestScope{Conn: conn}, nil
}
