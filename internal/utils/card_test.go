package utils

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/transfraud/internal/models"
)

func TestGenerateCardNumber(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	number, err := GenerateCardNumber(rng, VisaPrefix, CardNumberLength)
	require.NoError(t, err)
	assert.Len(t, number, CardNumberLength)
	assert.Equal(t, "4", number[:1])
	for _, r := range number {
		assert.True(t, r >= '0' && r <= '9', "non digit %q in %s", r, number)
	}
}

func TestGenerateCardNumber_InvalidLength(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := GenerateCardNumber(rng, "400000", 4)
	assert.Error(t, err)
	_, err = GenerateCardNumber(rng, "4", 20)
	assert.Error(t, err)
}

func TestCardBrand(t *testing.T) {
	brand, err := CardBrand("4123")
	require.NoError(t, err)
	assert.Equal(t, models.CardTypeVisa, brand)

	brand, err = CardBrand("5123")
	require.NoError(t, err)
	assert.Equal(t, models.CardTypeMastercard, brand)

	_, err = CardBrand("3123")
	assert.Error(t, err)
}

func TestGenerateExpiryDate(t *testing.T) {
	now := time.Date(2025, 2, 14, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2028, 2, 14, 0, 0, 0, 0, time.UTC), GenerateExpiryDate(now))
}

func TestHashCVV(t *testing.T) {
	cvv := GenerateCVV(rand.New(rand.NewSource(7)))
	assert.Len(t, cvv, 3)

	hash, err := HashCVV(cvv, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, cvv, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(cvv)))
}
