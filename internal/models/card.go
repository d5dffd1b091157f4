package models

import "time"

// Card types issued by the generator
const (
	CardTypeVisa       = "VISA"
	CardTypeMastercard = "MASTERCARD"
)

// Card represents a payment card owned by a customer
type Card struct {
	ID               string    `json:"id"`
	CustomerID       string    `json:"customer_id"`
	CardNumber       string    `json:"card_number"`
	CardHolderName   string    `json:"card_holder_name"`
	ExpiryDate       time.Time `json:"expiry_date"`
	CVVHash          string    `json:"-"` // Not serialized
	CardType         string    `json:"card_type"`
	CreditLimit      float64   `json:"credit_limit"`
	AvailableBalance float64   `json:"available_balance"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}
