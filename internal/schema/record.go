// Package schema holds the CardTransaction wire record published to the bus,
// its Avro codec and the mapping from domain transactions.
package schema

// Wire values of the transactionType enum
const (
	TransactionTypeOnline = "ONLINE"
	TransactionTypePOS    = "POS"
)

// MerchantLocation is the optional merchant geolocation of a wire record
type MerchantLocation struct {
	Latitude  float64 `avro:"latitude" json:"latitude"`
	Longitude float64 `avro:"longitude" json:"longitude"`
	City      string  `avro:"city" json:"city"`
	Country   string  `avro:"country" json:"country"`
}

// DeviceInfo is the optional device descriptor of a wire record
type DeviceInfo struct {
	DeviceID   string `avro:"deviceId" json:"deviceId"`
	DeviceType string `avro:"deviceType" json:"deviceType"`
	IPAddress  string `avro:"ipAddress" json:"ipAddress"`
	UserAgent  string `avro:"userAgent" json:"userAgent"`
}

// CardTransaction is the record shipped to downstream consumers. Nil nested
// pointers encode as the null branch of their union.
type CardTransaction struct {
	TransactionID         string            `avro:"transactionId" json:"transactionId"`
	CardID                string            `avro:"cardId" json:"cardId"`
	CustomerID            string            `avro:"customerId" json:"customerId"`
	TransactionTimestamp  int64             `avro:"transactionTimestamp" json:"transactionTimestamp"` // Epoch millis, UTC
	TransactionAmount     float64           `avro:"transactionAmount" json:"transactionAmount"`
	Currency              string            `avro:"currency" json:"currency"`
	MerchantID            string            `avro:"merchantId" json:"merchantId"`
	MerchantName          string            `avro:"merchantName" json:"merchantName"`
	MerchantCategory      string            `avro:"merchantCategory" json:"merchantCategory"`
	MerchantLocation      *MerchantLocation `avro:"merchantLocation" json:"merchantLocation,omitempty"`
	TransactionType       string            `avro:"transactionType" json:"transactionType"`
	DeviceInfo            *DeviceInfo       `avro:"deviceInfo" json:"deviceInfo,omitempty"`
	IsCardPresent         bool              `avro:"isCardPresent" json:"isCardPresent"`
	PreviousTransactionID *string           `avro:"previousTransactionId" json:"previousTransactionId,omitempty"`
}
