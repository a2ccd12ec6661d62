package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

const (
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

// DB is a SQL-backed kv.Store: one row per key in kv_entries.
type DB struct {
	*sql.DB
	dialect string
	queries queries
}

type queries struct {
	get    string
	upsert string
	delete string
}

// DetectDialect picks the backend from the DSN shape.
// MySQL DSN examples: user:password@tcp(host:port)/dbname, user:password@/dbname
// Postgres: postgres://... or postgresql://...
// SQLite: file path (data/animewatcher.db, :memory:, file:...)
func DetectDialect(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres
	case strings.Contains(dsn, "@"):
		return DialectMySQL
	default:
		return DialectSQLite
	}
}

func New(dsn string) (*DB, error) {
	dialect := DetectDialect(dsn)

	var db *sql.DB
	var err error
	switch dialect {
	case DialectPostgres:
		db, err = sql.Open("postgres", dsn)
	case DialectMySQL:
		db, err = sql.Open("mysql", dsn)
	default:
		db, err = openSQLite(dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	if dialect != DialectSQLite {
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := migrate(db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{DB: db, dialect: dialect, queries: queriesFor(dialect)}, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}

	// modernc.org/sqlite applies _pragma parameters on every new connection
	pragmas := []string{
		"_pragma=journal_mode(WAL)",
		"_pragma=busy_timeout(30000)",
		"_pragma=synchronous(NORMAL)",
		"_pragma=temp_store(MEMORY)",
	}
	dsn += strings.Join(pragmas, "&")

	return sql.Open("sqlite", dsn)
}

func migrate(db *sql.DB, dialect string) error {
	dir, err := fs.Sub(migrations, "migrations/"+dialect)
	if err != nil {
		return err
	}

	var gooseDialect goose.Dialect
	switch dialect {
	case DialectPostgres:
		gooseDialect = goose.DialectPostgres
	case DialectMySQL:
		gooseDialect = goose.DialectMySQL
	default:
		gooseDialect = goose.DialectSQLite3
	}

	provider, err := goose.NewProvider(gooseDialect, db, dir)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}

func queriesFor(dialect string) queries {
	switch dialect {
	case DialectPostgres:
		return queries{
			get: `SELECT entry_value FROM kv_entries WHERE entry_key = $1`,
			upsert: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`,
			delete: `DELETE FROM kv_entries WHERE entry_key = $1`,
		}
	case DialectMySQL:
		return queries{
			get: `SELECT entry_value FROM kv_entries WHERE entry_key = ?`,
			upsert: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value), updated_at = VALUES(updated_at)`,
			delete: `DELETE FROM kv_entries WHERE entry_key = ?`,
		}
	default:
		return queries{
			get: `SELECT entry_value FROM kv_entries WHERE entry_key = ?`,
			upsert: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`,
			delete: `DELETE FROM kv_entries WHERE entry_key = ?`,
		}
	}
}

func (db *DB) Dialect() string {
	return db.dialect
}

func (db *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := db.QueryRowContext(ctx, db.queries.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	_, err := db.ExecContext(ctx, db.queries.upsert, key, string(value), time.Now().UnixMilli())
	return err
}

func (db *DB) Delete(ctx context.Context, key string) error {
	_, err := db.ExecContext(ctx, db.queries.delete, key)
	return err
}

// SetMany writes all entries in one transaction.
func (db *DB) SetMany(ctx context.Context, entries map[string][]byte) error {
	now := time.Now().UnixMilli()
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		for key, value := range entries {
			if _, err := tx.ExecContext(ctx, db.queries.upsert, key, string(value), now); err != nil {
				return err
			}
		}
		return nil
	})
}

// WithTx runs fn inside a transaction, rolling back when fn fails.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
