package schema

import (
	_ "embed"
	"fmt"

	"github.com/hamba/avro/v2"
)

// ContentType is set as a message header on every encoded record
const ContentType = "avro/binary"

//go:embed card_transaction.avsc
var cardTransactionSchema string

// Codec encodes and decodes CardTransaction records with Avro binary encoding
type Codec struct {
	schema avro.Schema
}

// NewCodec parses the embedded CardTransaction schema
func NewCodec() (*Codec, error) {
	s, err := avro.Parse(cardTransactionSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to parse card transaction schema: %w", err)
	}
	return &Codec{schema: s}, nil
}

// Name returns the full name of the record schema
func (c *Codec) Name() string {
	if named, ok := c.schema.(avro.NamedSchema); ok {
		return named.FullName()
	}
	return "CardTransaction"
}

// Encode serializes a record
func (c *Codec) Encode(rec *CardTransaction) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("record is nil")
	}
	data, err := avro.Marshal(c.schema, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction %s: %w", rec.TransactionID, err)
	}
	return data, nil
}

// Decode deserializes a record
func (c *Codec) Decode(data []byte) (*CardTransaction, error) {
	rec := &CardTransaction{}
	if err := avro.Unmarshal(c.schema, data, rec); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return rec, nil
}
