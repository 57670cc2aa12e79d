package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const cartSlotsSchema = `
CREATE TABLE IF NOT EXISTS cart_slots (
	key        TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

type PostgresCartSlotRepository struct {
	db *sql.DB
}

func NewPostgresCartSlotRepository(db *sql.DB) *PostgresCartSlotRepository {
	return &PostgresCartSlotRepository{db: db}
}

// EnsureSchema creates the cart_slots table when it does not exist yet.
func (r *PostgresCartSlotRepository) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, cartSlotsSchema); err != nil {
		return fmt.Errorf("failed to create cart_slots table: %w", err)
	}
	return nil
}

func (r *PostgresCartSlotRepository) Load(key string) ([]byte, error) {
	query := `SELECT payload FROM cart_slots WHERE key = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var data []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart slot: %w", err)
	}
	return data, nil
}

func (r *PostgresCartSlotRepository) Save(key string, data []byte) error {
	query := `
		INSERT INTO cart_slots (key, payload, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save cart slot: %w", err)
	}
	return nil
}
