package models

import "time"

// Transaction kinds
const (
	TransactionTypeOnline = "ONLINE"
	TransactionTypePOS    = "POS"
)

// TransactionStatusApproved is the status given to synthesized transactions
const TransactionStatusApproved = "APPROVED"

// MerchantLocation is where a transaction took place
type MerchantLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

// DeviceInfo describes the device used for an online transaction
type DeviceInfo struct {
	DeviceID   string `json:"device_id"`
	DeviceType string `json:"device_type"`
	IPAddress  string `json:"ip_address"`
	UserAgent  string `json:"user_agent"`
}

// Transaction represents a card transaction. IsCardPresent is always the
// negation of an online transaction type, and DeviceInfo is set only for
// online transactions.
type Transaction struct {
	ID                    string            `json:"id"`
	CardID                string            `json:"card_id"`
	Amount                float64           `json:"amount"`
	Currency              string            `json:"currency"`
	MerchantID            string            `json:"merchant_id"`
	MerchantName          string            `json:"merchant_name"`
	MerchantCategory      string            `json:"merchant_category"`
	MerchantLocation      *MerchantLocation `json:"merchant_location,omitempty"`
	TransactionType       string            `json:"transaction_type"`
	IsCardPresent         bool              `json:"is_card_present"`
	DeviceInfo            *DeviceInfo       `json:"device_info,omitempty"`
	PreviousTransactionID *string           `json:"previous_transaction_id,omitempty"`
	Timestamp             time.Time         `json:"timestamp"`
	Status                string            `json:"status"`
}

// IsOnline reports whether the transaction was made online
func (t *Transaction) IsOnline() bool {
	return t.TransactionType == TransactionTypeOnline
}
