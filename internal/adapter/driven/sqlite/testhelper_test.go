package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"
)

// setupTestDB opens a migrated in-memory database named after the test.
// cache=shared lets the writer and reader pools see the same data; WAL does
// not apply to memory databases so the journal_mode pragma is left out.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)",
		url.PathEscape(t.Name()),
	)

	writer := openTestConn(t, dsn, 1)
	reader := openTestConn(t, dsn, 4)
	db := &DB{Writer: writer, Reader: reader, path: dsn}

	if err := RunMigrations(db.Writer); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return db
}

func openTestConn(t *testing.T, dsn string, maxOpen int) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	conn.SetMaxOpenConns(maxOpen)
	t.Cleanup(func() { _ = conn.Close() })

	if err := conn.PingContext(context.Background()); err != nil {
		t.Fatalf("ping test db: %v", err)
	}
	return conn
}
