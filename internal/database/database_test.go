package database

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func TestMigrations_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(Migrations, MigrationsDir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.Equal(t, []string{
		"00001_create_categories.sql",
		"00002_create_products.sql",
		"00003_create_users.sql",
		"00004_create_refresh_tokens.sql",
	}, names)
}

func TestMigrations_PartialUniqueIndexes(t *testing.T) {
	categories, err := fs.ReadFile(Migrations, MigrationsDir+"/00001_create_categories.sql")
	require.NoError(t, err)
	assert.Contains(t, string(categories), "WHERE deleted_at IS NULL")

	products, err := fs.ReadFile(Migrations, MigrationsDir+"/00002_create_products.sql")
	require.NoError(t, err)
	assert.Contains(t, string(products), "REFERENCES categories (id)")
	assert.Contains(t, string(products), "WHERE deleted_at IS NULL")
}

func TestOpenAndPing(t *testing.T) {
	db, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	assert.NoError(t, Ping(context.Background(), db))
}
