package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/transfraud/internal/models"
	"github.com/Dan9191/transfraud/internal/utils"
)

// maxEmailAttempts caps the numeric suffixes tried for a colliding email
const maxEmailAttempts = 100

const emailDomain = "example.com"

// Reference point customer and merchant coordinates are scattered around (Los Angeles)
const (
	referenceLatitude  = 34.0522
	referenceLongitude = -118.2437
	coordinateSpread   = 10.0
)

var (
	firstNames = []string{"John", "Jane", "Michael", "Sarah", "David", "Lisa", "Robert", "Maria", "William", "Elizabeth",
		"James", "Jennifer", "Thomas", "Linda", "Christopher", "Susan", "Daniel", "Jessica", "Matthew", "Karen"}
	lastNames = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
		"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin"}
	customerCities = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia", "San Antonio",
		"San Diego", "Dallas", "San Jose"}
)

// EntityGenerator builds randomized customers and cards. It is not safe for
// concurrent use; the Controller only calls it while holding its lock.
type EntityGenerator struct {
	rng        *rand.Rand
	faker      *gofakeit.Faker
	now        func() time.Time
	cvvCost    int
	firstNames []string
	lastNames  []string
	log        *logrus.Entry
}

// NewEntityGenerator creates a generator drawing all randomness from rng
func NewEntityGenerator(rng *rand.Rand, cvvCost int, log *logrus.Logger) *EntityGenerator {
	return &EntityGenerator{
		rng:        rng,
		faker:      gofakeit.New(rng.Uint64()),
		now:        time.Now,
		cvvCost:    cvvCost,
		firstNames: firstNames,
		lastNames:  lastNames,
		log:        log.WithField("component", "entity_generator"),
	}
}

// UniqueEmail derives first.last@example.com and appends an increasing numeric
// suffix until the address is not in used
func UniqueEmail(firstName, lastName string, used map[string]struct{}) (string, error) {
	local := strings.ToLower(firstName) + "." + strings.ToLower(lastName)
	email := local + "@" + emailDomain
	if _, taken := used[email]; !taken {
		return email, nil
	}

	for attempt := 1; attempt <= maxEmailAttempts; attempt++ {
		email = fmt.Sprintf("%s%d@%s", local, attempt, emailDomain)
		if _, taken := used[email]; !taken {
			return email, nil
		}
	}
	return "", fmt.Errorf("%w for %s %s after %d attempts", ErrUniqueConstraintExhausted, firstName, lastName, maxEmailAttempts)
}

// NewCustomer builds a customer whose email is not in usedEmails and records the email as used
func (g *EntityGenerator) NewCustomer(usedEmails map[string]struct{}) (*models.Customer, error) {
	firstName := g.firstNames[g.rng.Intn(len(g.firstNames))]
	lastName := g.lastNames[g.rng.Intn(len(g.lastNames))]

	email, err := UniqueEmail(firstName, lastName, usedEmails)
	if err != nil {
		g.log.Errorf("Unable to generate unique email for %s %s", firstName, lastName)
		return nil, err
	}

	id, err := g.newID()
	if err != nil {
		return nil, err
	}
	usedEmails[email] = struct{}{}

	return &models.Customer{
		ID:          id,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		PhoneNumber: fmt.Sprintf("+1-%03d-%03d-%04d", g.rng.Intn(1000), g.rng.Intn(1000), g.rng.Intn(10000)),
		Address: models.Address{
			Street:    g.faker.Street(),
			City:      customerCities[g.rng.Intn(len(customerCities))],
			State:     "CA",
			ZipCode:   g.faker.Zip(),
			Country:   "USA",
			Latitude:  g.scatter(referenceLatitude),
			Longitude: g.scatter(referenceLongitude),
		},
		AverageTransactionAmount: 50.0 + g.rng.Float64()*200,
		TypicalTransactionHours:  "9,10,11,12,13,14,15,16,17,18",
		CreatedAt:                g.now().UTC(),
	}, nil
}

// NewCard builds an active card for customer
func (g *EntityGenerator) NewCard(customer *models.Customer) (*models.Card, error) {
	prefix := utils.VisaPrefix
	if g.rng.Intn(2) == 1 {
		prefix = utils.MastercardPrefix
	}

	number, err := utils.GenerateCardNumber(g.rng, prefix, utils.CardNumberLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate card number: %w", err)
	}
	cardType, err := utils.CardBrand(number)
	if err != nil {
		return nil, err
	}

	cvvHash, err := utils.HashCVV(utils.GenerateCVV(g.rng), g.cvvCost)
	if err != nil {
		return nil, err
	}

	id, err := g.newID()
	if err != nil {
		return nil, err
	}

	now := g.now().UTC()
	return &models.Card{
		ID:               id,
		CustomerID:       customer.ID,
		CardNumber:       number,
		CardHolderName:   customer.FullName(),
		ExpiryDate:       utils.GenerateExpiryDate(now),
		CVVHash:          cvvHash,
		CardType:         cardType,
		CreditLimit:      5000.0 + g.rng.Float64()*10000,
		AvailableBalance: 1000.0 + g.rng.Float64()*4000,
		IsActive:         true,
		CreatedAt:        now,
	}, nil
}

func (g *EntityGenerator) newID() (string, error) {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// scatter returns a coordinate uniformly within half the spread of center
func (g *EntityGenerator) scatter(center float64) float64 {
	return center + (g.rng.Float64()-0.5)*coordinateSpread
}
