package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jewelry-studio-backend/internal/database"
)

func TestMigrations_Embedded(t *testing.T) {
	migrations, err := database.Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, "001_initial_schema.sql", migrations[0].Name)
	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Name, migrations[i].Name)
	}
}

func TestMigrations_Schema(t *testing.T) {
	migrations, err := database.Migrations()
	require.NoError(t, err)

	schema := migrations[0].SQL
	for _, table := range []string{"designs", "gold_prices", "orders", "rate_limits", "inspiration_images"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schema, "CHECK (regenerations_remaining >= 0)")
	assert.Contains(t, schema, "generation INTEGER NOT NULL DEFAULT 1")
}
