// Package service seeds the customer and card dataset, synthesizes card
// transactions and emits them on a schedule.
package service

import (
	"context"

	"github.com/Dan9191/transfraud/internal/models"
	"github.com/Dan9191/transfraud/internal/schema"
)

// Store is the persistence the generator writes seeded entities to and reads
// the active card pool from
type Store interface {
	SaveCustomer(ctx context.Context, c *models.Customer) error
	SaveCard(ctx context.Context, card *models.Card) error
	SaveTransaction(ctx context.Context, tx *models.Transaction) error

	CountCustomers(ctx context.Context) (int64, error)
	CountCards(ctx context.Context) (int64, error)
	CountActiveCards(ctx context.Context) (int64, error)
	CountTransactions(ctx context.Context) (int64, error)

	FindActiveCards(ctx context.Context) ([]*models.Card, error)

	DeleteAllTransactions(ctx context.Context) error
	DeleteAllCards(ctx context.Context) error
	DeleteAllCustomers(ctx context.Context) error
}

// Publisher hands a wire record to the bus without waiting for acknowledgement
type Publisher interface {
	Publish(ctx context.Context, rec *schema.CardTransaction) error
}
