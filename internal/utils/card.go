package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/transfraud/internal/models"
)

// Leading digits that identify the card brand
const (
	VisaPrefix       = "4"
	MastercardPrefix = "5"
)

// CardNumberLength is the total number of digits of a generated card number
const CardNumberLength = 15

// GenerateCardNumber generates a card number with the specified prefix and length
func GenerateCardNumber(rng *rand.Rand, prefix string, length int) (string, error) {
	if length < len(prefix) || length > 19 {
		return "", fmt.Errorf("invalid card number length: %d", length)
	}

	var builder strings.Builder
	builder.Grow(length)
	builder.WriteString(prefix)
	for i := len(prefix); i < length; i++ {
		builder.WriteByte(byte('0' + rng.Intn(10)))
	}

	return builder.String(), nil
}

// CardBrand returns the card type implied by the leading digit of a card number
func CardBrand(cardNumber string) (string, error) {
	switch {
	case strings.HasPrefix(cardNumber, VisaPrefix):
		return models.CardTypeVisa, nil
	case strings.HasPrefix(cardNumber, MastercardPrefix):
		return models.CardTypeMastercard, nil
	default:
		return "", fmt.Errorf("unknown card brand for number prefix %q", firstDigit(cardNumber))
	}
}

// GenerateExpiryDate returns the expiry date of a card issued at now (valid for 3 years)
func GenerateExpiryDate(now time.Time) time.Time {
	y, m, d := now.AddDate(3, 0, 0).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GenerateCVV generates a 3-digit CVV code
func GenerateCVV(rng *rand.Rand) string {
	return fmt.Sprintf("%03d", rng.Intn(1000))
}

// HashCVV hashes a CVV so it is never stored in clear text
func HashCVV(cvv string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cvv), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash CVV: %w", err)
	}
	return string(hash), nil
}

func firstDigit(s string) string {
	if s == "" {
		return ""
	}
	return s[:1]
}
