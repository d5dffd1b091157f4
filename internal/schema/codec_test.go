package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_EncodeDecode(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)
	assert.Equal(t, "com.transfraud.schema.CardTransaction", codec.Name())

	prev := "PREV_1"
	online := &CardTransaction{
		TransactionID:         "tx-1",
		CardID:                "card-1",
		CustomerID:            "cust-1",
		TransactionTimestamp:  1700000000000,
		TransactionAmount:     99.99,
		Currency:              "USD",
		MerchantID:            "MERCH_7",
		MerchantName:          "Amazon 3",
		MerchantCategory:      "RETAIL",
		MerchantLocation:      &MerchantLocation{Latitude: 33.9, Longitude: -118.1, City: "Chicago", Country: "USA"},
		TransactionType:       TransactionTypeOnline,
		DeviceInfo:            &DeviceInfo{DeviceID: "DEV_9", DeviceType: "TABLET", IPAddress: "192.168.1.2", UserAgent: "ua"},
		IsCardPresent:         false,
		PreviousTransactionID: &prev,
	}

	data, err := codec.Encode(online)
	require.NoError(t, err)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, online, decoded)
}

func TestCodec_NullUnionsStayNil(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	pos := &CardTransaction{
		TransactionID:   "tx-2",
		CardID:          "card-1",
		CustomerID:      "cust-1",
		Currency:        "USD",
		TransactionType: TransactionTypePOS,
		IsCardPresent:   true,
	}

	data, err := codec.Encode(pos)
	require.NoError(t, err)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Nil(t, decoded.MerchantLocation)
	assert.Nil(t, decoded.DeviceInfo)
	assert.Nil(t, decoded.PreviousTransactionID)
}

func TestCodec_RejectsUnknownEnumSymbol(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	_, err = codec.Encode(&CardTransaction{TransactionID: "tx-3", TransactionType: "ATM"})
	assert.Error(t, err)
}

func TestCodec_NilRecord(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	_, err = codec.Encode(nil)
	assert.Error(t, err)
}
