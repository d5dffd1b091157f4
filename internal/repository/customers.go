package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/transfraud/internal/models"
)

const customerColumns = `id, first_name, last_name, email, phone_number, street, city, state, zip_code,
	country, latitude, longitude, average_transaction_amount, typical_transaction_hours, created_at`

// SaveCustomer inserts or updates a customer
func (r *Repository) SaveCustomer(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO transfraud.customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone_number = EXCLUDED.phone_number,
			street = EXCLUDED.street,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			country = EXCLUDED.country,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			average_transaction_amount = EXCLUDED.average_transaction_amount,
			typical_transaction_hours = EXCLUDED.typical_transaction_hours`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, c.PhoneNumber,
		c.Address.Street, c.Address.City, c.Address.State, c.Address.ZipCode, c.Address.Country,
		c.Address.Latitude, c.Address.Longitude,
		c.AverageTransactionAmount, c.TypicalTransactionHours, c.CreatedAt)
	if isUniqueViolation(err, "customers_email_key") {
		return fmt.Errorf("failed to save customer %s: %w", c.Email, ErrDuplicateEmail)
	}
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by id
func (r *Repository) FindCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM transfraud.customers WHERE id = $1`
	return r.findCustomer(ctx, query, id)
}

// FindCustomerByEmail retrieves a customer by email
func (r *Repository) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM transfraud.customers WHERE email = $1`
	return r.findCustomer(ctx, query, email)
}

func (r *Repository) findCustomer(ctx context.Context, query string, arg any) (*models.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %v: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return c, nil
}

// FindAllCustomers lists customers ordered by creation time. A non-positive limit returns all rows.
func (r *Repository) FindAllCustomers(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	clause, args := limitClause(limit, offset)
	query := `SELECT ` + customerColumns + ` FROM transfraud.customers ORDER BY created_at, id` + clause
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// CountCustomers returns the number of customers
func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM transfraud.customers`)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

// DeleteAllCustomers removes every customer. Cards must be deleted first.
func (r *Repository) DeleteAllCustomers(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transfraud.customers`); err != nil {
		return fmt.Errorf("failed to delete customers: %w", err)
	}
	return nil
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	c := &models.Customer{}
	var phone, street, city, state, zip, country, hours sql.NullString
	var lat, lon, avg sql.NullFloat64
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &phone,
		&street, &city, &state, &zip, &country, &lat, &lon, &avg, &hours, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.PhoneNumber = phone.String
	c.Address = models.Address{
		Street:    street.String,
		City:      city.String,
		State:     state.String,
		ZipCode:   zip.String,
		Country:   country.String,
		Latitude:  lat.Float64,
		Longitude: lon.Float64,
	}
	c.AverageTransactionAmount = avg.Float64
	c.TypicalTransactionHours = hours.String
	return c, nil
}
