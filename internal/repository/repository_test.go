package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRow assigns canned values to Scan destinations in order
type stubRow struct {
	values []any
	err    error
}

func (s stubRow) Scan(dest ...any) error {
	if s.err != nil {
		return s.err
	}
	if len(dest) != len(s.values) {
		return fmt.Errorf("scan: got %d destinations, want %d", len(dest), len(s.values))
	}
	for i, d := range dest {
		if scanner, ok := d.(sql.Scanner); ok {
			if err := scanner.Scan(s.values[i]); err != nil {
				return err
			}
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(s.values[i]))
	}
	return nil
}

func TestScanTransaction_NullNestedFields(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	row := stubRow{values: []any{
		"tx-1", "card-1", 12.5, "USD", "MERCH_1", "Target 4", "RETAIL",
		nil, nil, nil, nil, "POS", true,
		nil, nil, nil, nil, nil, ts, "APPROVED",
	}}

	tx, err := scanTransaction(row)
	require.NoError(t, err)
	assert.Nil(t, tx.MerchantLocation)
	assert.Nil(t, tx.DeviceInfo)
	assert.Nil(t, tx.PreviousTransactionID)
	assert.Equal(t, ts, tx.Timestamp)
	assert.Equal(t, "RETAIL", tx.MerchantCategory)
}

func TestScanTransaction_NestedFields(t *testing.T) {
	row := stubRow{values: []any{
		"tx-2", "card-1", 99.0, "USD", "MERCH_2", "Uber 1", "TRAVEL",
		34.0, -118.0, "Miami", "USA", "ONLINE", false,
		"DEV_1", "MOBILE", "192.168.1.1", "ua", "PREV_1", time.Now(), "APPROVED",
	}}

	tx, err := scanTransaction(row)
	require.NoError(t, err)
	require.NotNil(t, tx.MerchantLocation)
	assert.Equal(t, "Miami", tx.MerchantLocation.City)
	require.NotNil(t, tx.DeviceInfo)
	assert.Equal(t, "192.168.1.1", tx.DeviceInfo.IPAddress)
	require.NotNil(t, tx.PreviousTransactionID)
	assert.Equal(t, "PREV_1", *tx.PreviousTransactionID)
}

func TestScanCustomer(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	row := stubRow{values: []any{
		"cust-1", "John", "Smith", "john.smith@example.com", "+1-555-555-5555",
		"1 Main St", "Chicago", "CA", "90001", "USA", 34.1, -118.2, 120.0, "9,10", created,
	}}

	c, err := scanCustomer(row)
	require.NoError(t, err)
	assert.Equal(t, "john.smith@example.com", c.Email)
	assert.Equal(t, "Chicago", c.Address.City)
	assert.Equal(t, 120.0, c.AverageTransactionAmount)
	assert.Equal(t, created, c.CreatedAt)
}

func TestScanCard_PropagatesError(t *testing.T) {
	_, err := scanCard(stubRow{err: sql.ErrNoRows})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: uniqueViolation, Constraint: "customers_email_key"}

	assert.True(t, isUniqueViolation(dup, "customers_email_key"))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", dup), ""))
	assert.False(t, isUniqueViolation(dup, "customers_pkey"))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(nil, ""))
}

func TestLimitClause(t *testing.T) {
	clause, args := limitClause(0, 10)
	assert.Empty(t, clause)
	assert.Nil(t, args)

	clause, args = limitClause(25, -1)
	assert.Equal(t, " LIMIT $1 OFFSET $2", clause)
	assert.Equal(t, []any{25, 0}, args)
}
