package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/transfraud/internal/models"
)

const cardColumns = `id, customer_id, card_number, card_holder_name, expiry_date, cvv_hash, card_type,
	credit_limit, available_balance, is_active, created_at`

// SaveCard inserts or updates a card. The owning customer must already exist.
func (r *Repository) SaveCard(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO transfraud.cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			card_holder_name = EXCLUDED.card_holder_name,
			expiry_date = EXCLUDED.expiry_date,
			credit_limit = EXCLUDED.credit_limit,
			available_balance = EXCLUDED.available_balance,
			is_active = EXCLUDED.is_active`
	_, err := r.db.ExecContext(ctx, query,
		card.ID, card.CustomerID, card.CardNumber, card.CardHolderName, card.ExpiryDate,
		card.CVVHash, card.CardType, card.CreditLimit, card.AvailableBalance, card.IsActive, card.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}

// FindCardByID retrieves a card by id
func (r *Repository) FindCardByID(ctx context.Context, id string) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM transfraud.cards WHERE id = $1`
	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return card, nil
}

// FindAllCards lists cards. A non-positive limit returns all rows.
func (r *Repository) FindAllCards(ctx context.Context, limit, offset int) ([]*models.Card, error) {
	clause, args := limitClause(limit, offset)
	return r.queryCards(ctx, `SELECT `+cardColumns+` FROM transfraud.cards ORDER BY created_at, id`+clause, args...)
}

// FindActiveCards returns every card eligible for transactions
func (r *Repository) FindActiveCards(ctx context.Context) ([]*models.Card, error) {
	return r.queryCards(ctx, `SELECT `+cardColumns+` FROM transfraud.cards WHERE is_active ORDER BY id`)
}

func (r *Repository) queryCards(ctx context.Context, query string, args ...any) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// CountCards returns the number of cards
func (r *Repository) CountCards(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM transfraud.cards`)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

// CountActiveCards returns the number of active cards
func (r *Repository) CountActiveCards(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM transfraud.cards WHERE is_active`)
	if err != nil {
		return 0, fmt.Errorf("failed to count active cards: %w", err)
	}
	return n, nil
}

// DeleteAllCards removes every card. Transactions must be deleted first.
func (r *Repository) DeleteAllCards(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transfraud.cards`); err != nil {
		return fmt.Errorf("failed to delete cards: %w", err)
	}
	return nil
}

func scanCard(row rowScanner) (*models.Card, error) {
	card := &models.Card{}
	err := row.Scan(&card.ID, &card.CustomerID, &card.CardNumber, &card.CardHolderName, &card.ExpiryDate,
		&card.CVVHash, &card.CardType, &card.CreditLimit, &card.AvailableBalance, &card.IsActive, &card.CreatedAt)
	if err != nil {
		return nil, err
	}
	return card, nil
}
