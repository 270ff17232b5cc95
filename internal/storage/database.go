// internal/storage/database.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib" // Driver registration ("pgx")
	_ "github.com/mattn/go-sqlite3"    // Driver registration ("sqlite3")

	"github.com/Annany2002/habitgrid-backend/config"
	"github.com/Annany2002/habitgrid-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// DB is the application's connection pool together with its SQL dialect.
// It is opened once at process start and closed at shutdown.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Tx is a transaction bound to the dialect of the pool that started it.
type Tx struct {
	*sql.Tx
	dialect Dialect
}

// runner is satisfied by both *DB and *Tx so repository helpers can run
// inside or outside a transaction.
type runner interface {
	exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	queryRow(ctx context.Context, query string, args ...any) *sql.Row
}

func (db *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.ExecContext(ctx, db.dialect.Rebind(query), args...)
}

func (db *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.QueryContext(ctx, db.dialect.Rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.QueryRowContext(ctx, db.dialect.Rebind(query), args...)
}

func (tx *Tx) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return tx.ExecContext(ctx, tx.dialect.Rebind(query), args...)
}

func (tx *Tx) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return tx.QueryContext(ctx, tx.dialect.Rebind(query), args...)
}

func (tx *Tx) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return tx.QueryRowContext(ctx, tx.dialect.Rebind(query), args...)
}

// Dialect returns the SQL flavour of the pool.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func withTx(ctx context.Context, db *DB, fn func(tx *Tx) error) (err error) {
	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		customLog.Warnf("Storage: Failed to begin transaction: %v", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Tx{Tx: sqlTx, dialect: db.dialect}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil {
				customLog.Warnf("Storage: Rollback failed: %v", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		customLog.Warnf("Storage: Failed to commit transaction: %v", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Connect opens the configured database, verifies the connection and
// ensures the schema exists.
func Connect(cfg *config.Config) (*DB, error) {
	var (
		sqlDB   *sql.DB
		err     error
		dialect Dialect
	)

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		dialect = DialectPostgres
		customLog.Println("Storage: Initializing postgres database")
		sqlDB, err = sql.Open("pgx", cfg.DatabaseDSN)
	default:
		dialect = DialectSQLite
		dbPath := filepath.Join(cfg.MetadataDbDir, cfg.MetadataDbFile)
		customLog.Printf("Storage: Initializing sqlite database: %s", dbPath)

		if err := os.MkdirAll(cfg.MetadataDbDir, 0o750); err != nil {
			customLog.Warnf("Storage: Error creating data directory '%s': %v", cfg.MetadataDbDir, err)
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		// Foreign keys, WAL, a 5s busy timeout and BEGIN IMMEDIATE so that
		// concurrent writers queue instead of failing on lock upgrades.
		sqlDB, err = sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	}
	if err != nil {
		customLog.Warnf("Storage: Failed to open database: %v", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = sqlDB.Ping(); err != nil {
		sqlDB.Close()
		customLog.Warnf("Storage: Failed to ping database: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	customLog.Println("Storage: Database connection successful.")

	db := &DB{DB: sqlDB, dialect: dialect}
	if err := ensureSchema(context.Background(), db); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

var schemaStatements = []struct {
	name string
	sql  string
}{
	{"users", `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		avatar_url TEXT,
		view_mode TEXT NOT NULL DEFAULT 'year',
		created_at TIMESTAMP NOT NULL
	);`},
	{"habits", `
	CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		user_id TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);`},
	{"habit_week_days", `
	CREATE TABLE IF NOT EXISTS habit_week_days (
		id TEXT PRIMARY KEY,
		habit_id TEXT NOT NULL,
		week_day INTEGER NOT NULL CHECK (week_day BETWEEN 0 AND 6),
		UNIQUE (habit_id, week_day),
		FOREIGN KEY (habit_id) REFERENCES habits(id)
	);`},
	{"days", `
	CREATE TABLE IF NOT EXISTS days (
		id TEXT PRIMARY KEY,
		date DATE NOT NULL,
		user_id TEXT NOT NULL,
		UNIQUE (date, user_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);`},
	{"daily_habit_availability", `
	CREATE TABLE IF NOT EXISTS daily_habit_availability (
		id TEXT PRIMARY KEY,
		day_id TEXT NOT NULL,
		habit_id TEXT NOT NULL,
		UNIQUE (day_id, habit_id),
		FOREIGN KEY (day_id) REFERENCES days(id),
		FOREIGN KEY (habit_id) REFERENCES habits(id)
	);`},
	{"day_habits", `
	CREATE TABLE IF NOT EXISTS day_habits (
		id TEXT PRIMARY KEY,
		day_id TEXT NOT NULL,
		habit_id TEXT NOT NULL,
		UNIQUE (day_id, habit_id),
		FOREIGN KEY (day_id) REFERENCES days(id),
		FOREIGN KEY (habit_id) REFERENCES habits(id)
	);`},
	{"idx_habits_user", `CREATE INDEX IF NOT EXISTS idx_habits_user ON habits (user_id);`},
	{"idx_availability_habit", `CREATE INDEX IF NOT EXISTS idx_availability_habit ON daily_habit_availability (habit_id);`},
	{"idx_day_habits_habit", `CREATE INDEX IF NOT EXISTS idx_day_habits_habit ON day_habits (habit_id);`},
}

// ensureSchema creates missing tables and indexes. Every statement is
// idempotent, so it runs on each start.
func ensureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt.sql); err != nil {
			customLog.Warnf("Storage: Failed to ensure %s: %v", stmt.name, err)
			return fmt.Errorf("failed to ensure %s: %w", stmt.name, err)
		}
	}
	customLog.Println("Storage: Schema ensured.")
	return nil
}
