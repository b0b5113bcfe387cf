package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jewelry-studio-backend/internal/models"
)

// InsertGoldPrice appends a snapshot. Snapshots are never updated.
func (d *DatabaseClient) InsertGoldPrice(ctx context.Context, price *models.GoldPrice) error {
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO gold_prices (
			metal_type, currency, price_per_oz_troy, price_per_gram,
			price_24k, price_22k, price_21k, price_18k, fetched_at, source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, price.MetalType, price.Currency, price.PricePerOzTroy, price.PricePerGram,
		price.Price24K, price.Price22K, price.Price21K, price.Price18K, price.FetchedAt, price.Source,
	).Scan(&price.ID)
	if err != nil {
		return fmt.Errorf("failed to insert gold price: %w", err)
	}
	return nil
}

// LatestGoldPrice returns the newest snapshot for the metal and currency.
func (d *DatabaseClient) LatestGoldPrice(ctx context.Context, metal, currency string) (*models.GoldPrice, error) {
	var p models.GoldPrice
	err := d.db.QueryRowContext(ctx, `
		SELECT id, metal_type, currency, price_per_oz_troy, price_per_gram,
			price_24k, price_22k, price_21k, price_18k, fetched_at, source
		FROM gold_prices
		WHERE metal_type = $1 AND currency = $2
		ORDER BY fetched_at DESC
		LIMIT 1
	`, metal, currency).Scan(
		&p.ID, &p.MetalType, &p.Currency, &p.PricePerOzTroy, &p.PricePerGram,
		&p.Price24K, &p.Price22K, &p.Price21K, &p.Price18K, &p.FetchedAt, &p.Source,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNoGoldPrice
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest gold price: %w", err)
	}
	return &p, nil
}
