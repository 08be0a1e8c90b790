// Package customers stores rows of the customers table that questions are
// answered against.
package customers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type NewCustomer struct {
	Name     string
	Gender   string
	Location string
}

type Customer struct {
	ID       int64
	Name     string
	Gender   string
	Location string
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping customers db: %w", err)
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, in NewCustomer) (Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Customer{}, fmt.Errorf("customer name is required")
	}
	query := `
INSERT INTO customers (name, gender, location)
VALUES ($1, $2, $3)
RETURNING customer_id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, in.Name, nullable(in.Gender), nullable(in.Location)).Scan(&id); err != nil {
		return Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return Customer{ID: id, Name: in.Name, Gender: in.Gender, Location: in.Location}, nil
}

// InsertBatch writes all rows in one transaction. Nothing is kept if any row
// fails.
func (r *Repository) InsertBatch(ctx context.Context, batch []NewCustomer) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin customer batch tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO customers (name, gender, location) VALUES ($1, $2, $3)`)
	if err != nil {
		return 0, fmt.Errorf("prepare customer insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, in := range batch {
		if strings.TrimSpace(in.Name) == "" {
			return 0, fmt.Errorf("customer %d: name is required", i)
		}
		if _, err := stmt.ExecContext(ctx, in.Name, nullable(in.Gender), nullable(in.Location)); err != nil {
			return 0, fmt.Errorf("insert customer %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit customer batch: %w", err)
	}
	return len(batch), nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return count, nil
}

// Truncate empties the table and restarts customer_id numbering.
func (r *Repository) Truncate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE TABLE customers RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate customers: %w", err)
	}
	return nil
}

func nullable(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
