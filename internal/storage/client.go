package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// ErrStorage marks every failure that originates in the database.
var ErrStorage = errors.New("storage error")

// ErrUnsupportedDriver is returned for driver names other than DriverSQLite and DriverMySQL.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// SQLClient wraps direct SQL access for the request log.
type SQLClient struct {
	db     *sql.DB
	driver string

	// writeMu serialises inserts and updates issued by this process.
	writeMu sync.Mutex
}

// NewSQLClient wires a sql.DB opened with the given driver; pass a configured instance from main.
func NewSQLClient(db *sql.DB, driver string) *SQLClient {
	return &SQLClient{db: db, driver: driver}
}

// Open opens and pings a database for the given driver. For SQLite, dsn may be
// a bare file path; busy timeout and WAL journaling are added to it.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverMySQL:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// One connection: SQLite allows a single writer and :memory: databases
		// are per-connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxIdleConns(5)
		db.SetMaxOpenConns(20)
		db.SetConnMaxLifetime(60 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, "?") {
		return dsn
	}
	if dsn == ":memory:" {
		return "file::memory:?_pragma=busy_timeout(5000)"
	}
	return "file:" + dsn + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

var schemaStatements = map[string][]string{
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS request_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			zip_code TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_request_history_timestamp ON request_history (timestamp)`,
	},
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS request_history (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			zip_code VARCHAR(5) NOT NULL,
			timestamp VARCHAR(32) NOT NULL,
			status VARCHAR(16) NOT NULL,
			INDEX idx_request_history_timestamp (timestamp)
		)`,
	},
}

// Initialize creates the request_history table if it does not exist.
// It is safe to call on every process start.
func (c *SQLClient) Initialize(ctx context.Context) error {
	statements, ok := schemaStatements[c.driver]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.driver)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	for _, stmt := range statements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: failed to initialize schema: %w", ErrStorage, err)
		}
	}
	return nil
}

// Ping checks that the database is reachable.
func (c *SQLClient) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
