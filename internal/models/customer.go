package models

import "time"

// Address is the postal and geographic location of a customer
type Address struct {
	Street    string  `json:"street"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Customer represents a cardholder
type Customer struct {
	ID                       string    `json:"id"`
	FirstName                string    `json:"first_name"`
	LastName                 string    `json:"last_name"`
	Email                    string    `json:"email"`
	PhoneNumber              string    `json:"phone_number"`
	Address                  Address   `json:"address"`
	AverageTransactionAmount float64   `json:"average_transaction_amount"`
	TypicalTransactionHours  string    `json:"typical_transaction_hours"` // Advisory, comma separated hours
	CreatedAt                time.Time `json:"created_at"`
}

// FullName returns the name printed on the customer's cards
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
