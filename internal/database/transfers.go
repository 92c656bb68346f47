package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/x402-tools/paywallet/internal/payment"
)

// Transfer is a locally recorded submission. Status moves
// submitted -> confirmed | reverted when receipt polling completes; transfers
// submitted with --no-wait stay "submitted" until discovered out-of-band.
type Transfer struct {
	ID          int64  `json:"id"`
	TxHash      string `json:"tx_hash"`
	FromAddress string `json:"from"`
	ToAddress   string `json:"to"`
	Token       string `json:"token,omitempty"`
	AmountRaw   string `json:"amount_raw"`
	GasPrice    string `json:"gas_price"`
	ChainID     uint64 `json:"chain_id"`
	Status      string `json:"status"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

func (sm *SQLiteManager) initTransfersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS transfers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tx_hash TEXT NOT NULL UNIQUE,
		from_address TEXT NOT NULL,
		to_address TEXT NOT NULL,
		token TEXT NOT NULL DEFAULT '',
		amount_raw TEXT NOT NULL,
		gas_price TEXT NOT NULL DEFAULT '',
		chain_id INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'submitted',
		block_number INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transfers_created_at ON transfers(created_at DESC);
	`
	_, err := sm.db.Exec(query)
	return err
}

// RecordTransfer inserts a newly submitted transfer.
func (sm *SQLiteManager) RecordTransfer(rec *payment.TransferRecord) error {
	query := `
	INSERT INTO transfers (tx_hash, from_address, to_address, token, amount_raw, gas_price, chain_id, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := sm.db.Exec(query,
		rec.TxHash, rec.From, rec.To, rec.Token, rec.AmountRaw, rec.GasPrice,
		rec.ChainID, rec.Status, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %v", err)
	}

	return nil
}

// UpdateTransferStatus moves a transfer to its final status once the receipt
// is known.
func (sm *SQLiteManager) UpdateTransferStatus(txHash, status string, blockNumber uint64) error {
	result, err := sm.db.Exec(
		`UPDATE transfers SET status = ?, block_number = ? WHERE tx_hash = ?`,
		status, blockNumber, txHash)
	if err != nil {
		return fmt.Errorf("failed to update transfer: %v", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("no transfer found for hash %s", txHash)
	}

	return nil
}

// ListTransfers returns the most recent transfers, newest first.
func (sm *SQLiteManager) ListTransfers(limit int) ([]*Transfer, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := sm.db.Query(`
		SELECT id, tx_hash, from_address, to_address, token, amount_raw, gas_price, chain_id, status, block_number, created_at
		FROM transfers ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %v", err)
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		t := &Transfer{}
		if err := rows.Scan(&t.ID, &t.TxHash, &t.FromAddress, &t.ToAddress, &t.Token,
			&t.AmountRaw, &t.GasPrice, &t.ChainID, &t.Status, &t.BlockNumber, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %v", err)
		}
		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}

// GetTransfer looks up a transfer by transaction hash.
func (sm *SQLiteManager) GetTransfer(txHash string) (*Transfer, error) {
	t := &Transfer{}
	err := sm.db.QueryRow(`
		SELECT id, tx_hash, from_address, to_address, token, amount_raw, gas_price, chain_id, status, block_number, created_at
		FROM transfers WHERE tx_hash = ?`, txHash).
		Scan(&t.ID, &t.TxHash, &t.FromAddress, &t.ToAddress, &t.Token,
			&t.AmountRaw, &t.GasPrice, &t.ChainID, &t.Status, &t.BlockNumber, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer: %v", err)
	}

	return t, nil
}
