package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/transfraud/internal/models"
)

const transactionColumns = `id, card_id, amount, currency, merchant_id, merchant_name, merchant_category,
	merchant_latitude, merchant_longitude, merchant_city, merchant_country, transaction_type, is_card_present,
	device_id, device_type, ip_address, user_agent, previous_transaction_id, transaction_timestamp, status`

// SaveTransaction inserts a transaction. Transactions are immutable once stored.
func (r *Repository) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transfraud.transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	var lat, lon sql.NullFloat64
	var city, country sql.NullString
	if loc := tx.MerchantLocation; loc != nil {
		lat = sql.NullFloat64{Float64: loc.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: loc.Longitude, Valid: true}
		city = sql.NullString{String: loc.City, Valid: true}
		country = sql.NullString{String: loc.Country, Valid: true}
	}

	var deviceID, deviceType, ip, ua sql.NullString
	if dev := tx.DeviceInfo; dev != nil {
		deviceID = sql.NullString{String: dev.DeviceID, Valid: true}
		deviceType = sql.NullString{String: dev.DeviceType, Valid: true}
		ip = sql.NullString{String: dev.IPAddress, Valid: true}
		ua = sql.NullString{String: dev.UserAgent, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.CardID, tx.Amount, tx.Currency, tx.MerchantID, tx.MerchantName, tx.MerchantCategory,
		lat, lon, city, country, tx.TransactionType, tx.IsCardPresent,
		deviceID, deviceType, ip, ua, nullString(tx.PreviousTransactionID), tx.Timestamp, tx.Status)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by id
func (r *Repository) FindTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transfraud.transactions WHERE id = $1`
	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return tx, nil
}

// CountTransactions returns the number of stored transactions
func (r *Repository) CountTransactions(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM transfraud.transactions`)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// DeleteAllTransactions removes every transaction
func (r *Repository) DeleteAllTransactions(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transfraud.transactions`); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var category, city, country, deviceID, deviceType, ip, ua, prev sql.NullString
	var lat, lon sql.NullFloat64
	err := row.Scan(&tx.ID, &tx.CardID, &tx.Amount, &tx.Currency, &tx.MerchantID, &tx.MerchantName, &category,
		&lat, &lon, &city, &country, &tx.TransactionType, &tx.IsCardPresent,
		&deviceID, &deviceType, &ip, &ua, &prev, &tx.Timestamp, &tx.Status)
	if err != nil {
		return nil, err
	}

	tx.MerchantCategory = category.String
	if lat.Valid && lon.Valid {
		tx.MerchantLocation = &models.MerchantLocation{
			Latitude:  lat.Float64,
			Longitude: lon.Float64,
			City:      city.String,
			Country:   country.String,
		}
	}
	if deviceID.Valid {
		tx.DeviceInfo = &models.DeviceInfo{
			DeviceID:   deviceID.String,
			DeviceType: deviceType.String,
			IPAddress:  ip.String,
			UserAgent:  ua.String,
		}
	}
	tx.PreviousTransactionID = stringPtr(prev)
	return tx, nil
}
