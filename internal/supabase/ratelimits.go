package supabase

import (
	"context"
	"fmt"
)

// IncrementRateLimit bumps the counter for identifier in the given hour
// bucket and returns the new count.
func (d *DatabaseClient) IncrementRateLimit(ctx context.Context, identifier string, hour int64) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO rate_limits (identifier, hour, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (identifier, hour) DO UPDATE SET count = rate_limits.count + 1
		RETURNING count
	`, identifier, hour).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate limit: %w", err)
	}
	return count, nil
}
