// Package database keeps a local SQLite record of submitted transfers so the
// `history` command can answer without touching the network.
package database

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/x402-tools/paywallet/internal/utils"
)

const dbFileName = "paywallet.db"

// SQLiteManager handles all database operations.
type SQLiteManager struct {
	db     *sql.DB
	logger *utils.LogsManager
}

// NewSQLiteManager opens (or creates) the history database in dir.
func NewSQLiteManager(dir string, logger *utils.LogsManager) (*SQLiteManager, error) {
	path := filepath.Join(dir, dbFileName)

	db, err := sql.Open("sqlite",
		fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=1&_synchronous=NORMAL", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	sqlm := &SQLiteManager{
		db:     db,
		logger: logger,
	}

	if err := sqlm.initTransfersTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init transfers table: %v", err)
	}

	return sqlm, nil
}

// Close closes the database connection.
func (sm *SQLiteManager) Close() error {
	return sm.db.Close()
}
