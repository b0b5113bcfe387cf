package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"jewelry-studio-backend/internal/models"
)

const orderColumns = `
	id, design_id, customer_name, customer_phone, customer_email, status,
	price_breakdown, total_price, currency, gold_price_at_order, created_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		order     models.Order
		breakdown []byte
	)
	err := row.Scan(
		&order.ID, &order.DesignID, &order.CustomerName, &order.CustomerPhone, &order.CustomerEmail,
		&order.Status, &breakdown, &order.TotalPrice, &order.Currency, &order.GoldPriceAtOrder,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(breakdown, &order.PriceBreakdown); err != nil {
		return nil, fmt.Errorf("failed to decode price breakdown: %w", err)
	}
	return &order, nil
}

func (d *DatabaseClient) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	breakdownJSON, err := json.Marshal(order.PriceBreakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to encode price breakdown: %w", err)
	}

	row := d.db.QueryRowContext(ctx, `
		INSERT INTO orders (
			design_id, customer_name, customer_phone, customer_email, status,
			price_breakdown, total_price, currency, gold_price_at_order
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+orderColumns,
		order.DesignID, order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.Status,
		breakdownJSON, order.TotalPrice, order.Currency, order.GoldPriceAtOrder,
	)

	created, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (d *DatabaseClient) ListRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus is the only mutation an order allows after creation.
func (d *DatabaseClient) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	result, err := d.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return notFoundIfNone(result, models.ErrOrderNotFound)
}
