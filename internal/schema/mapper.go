package schema

import (
	"errors"
	"fmt"

	"github.com/Dan9191/transfraud/internal/models"
)

// ErrUnknownTransactionType is returned when a domain transaction type has no wire equivalent
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// ParseTransactionType maps a domain transaction type to the wire enum
func ParseTransactionType(t string) (string, error) {
	switch t {
	case models.TransactionTypeOnline:
		return TransactionTypeOnline, nil
	case models.TransactionTypePOS:
		return TransactionTypePOS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionType, t)
	}
}

// FromTransaction maps a domain transaction made on a card owned by
// customerID to its wire record
func FromTransaction(tx *models.Transaction, customerID string) (*CardTransaction, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is nil")
	}

	txType, err := ParseTransactionType(tx.TransactionType)
	if err != nil {
		return nil, err
	}

	rec := &CardTransaction{
		TransactionID:        tx.ID,
		CardID:               tx.CardID,
		CustomerID:           customerID,
		TransactionTimestamp: tx.Timestamp.UTC().UnixMilli(),
		TransactionAmount:    tx.Amount,
		Currency:             tx.Currency,
		MerchantID:           tx.MerchantID,
		MerchantName:         tx.MerchantName,
		MerchantCategory:     tx.MerchantCategory,
		TransactionType:      txType,
		IsCardPresent:        tx.IsCardPresent,
	}

	if loc := tx.MerchantLocation; loc != nil {
		rec.MerchantLocation = &MerchantLocation{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			City:      loc.City,
			Country:   loc.Country,
		}
	}

	if dev := tx.DeviceInfo; dev != nil {
		rec.DeviceInfo = &DeviceInfo{
			DeviceID:   dev.DeviceID,
			DeviceType: dev.DeviceType,
			IPAddress:  dev.IPAddress,
			UserAgent:  dev.UserAgent,
		}
	}

	if tx.PreviousTransactionID != nil {
		prev := *tx.PreviousTransactionID
		rec.PreviousTransactionID = &prev
	}

	return rec, nil
}
