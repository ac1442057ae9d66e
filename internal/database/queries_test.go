package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/conciliacao/internal/config"
	"github.com/JonMunkholm/conciliacao/internal/database"
	"github.com/JonMunkholm/conciliacao/internal/database/dbtest"
)

func TestCountRows(t *testing.T) {
	fake := &dbtest.DB{Counts: map[string]int64{"finance_holidays": 12}}

	n, err := database.New(fake).CountRows(context.Background(), "public", "finance_holidays", "")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.Equal(t, []string{`SELECT count(*) FROM "public"."finance_holidays"`}, fake.Statements())
}

func TestCountRows_SoftDelete(t *testing.T) {
	fake := &dbtest.DB{Counts: map[string]int64{"finance_transactions": 3}}

	n, err := database.New(fake).CountRows(context.Background(), "", "finance_transactions", "deleted_at")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []string{`SELECT count(*) FROM "finance_transactions" WHERE "deleted_at" IS NULL`}, fake.Statements())
}

func TestCountRows_QuotesHostileNames(t *testing.T) {
	fake := &dbtest.DB{}

	_, err := database.New(fake).CountRows(context.Background(), "public", `x"; DROP TABLE y; --`, "")
	require.NoError(t, err)
	assert.Equal(t, []string{`SELECT count(*) FROM "public"."x""; DROP TABLE y; --"`}, fake.Statements())
}

func TestCountRows_Error(t *testing.T) {
	fake := &dbtest.DB{CountErr: errors.New("connection refused")}

	_, err := database.New(fake).CountRows(context.Background(), "public", "finance_holidays", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count finance_holidays")
}

func TestTableColumns(t *testing.T) {
	fake := &dbtest.DB{Columns: map[string][]string{
		"finance_holidays": {"id", "date", "name"},
		"unrelated":        {"x"},
	}}

	got, err := database.New(fake).TableColumns(context.Background(), "public",
		[]string{"finance_holidays", "finance_transactions"})
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{"finance_holidays": {"id", "date", "name"}}, got)
}

func TestTableColumns_QueryError(t *testing.T) {
	fake := &dbtest.DB{QueryErr: errors.New("permission denied")}

	_, err := database.New(fake).TableColumns(context.Background(), "public", []string{"t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestPoolConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		URL:      "postgres://user:pw@localhost:5432/finance",
		MaxConns: 7,
		MinConns: 2,
	}

	pc, err := database.PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, "finance", pc.ConnConfig.Database)
}

func TestPoolConfig_InvalidURL(t *testing.T) {
	_, err := database.PoolConfig(config.DatabaseConfig{URL: "postgres://localhost/%zz"})
	assert.Error(t, err)
}

func TestDatabaseName(t *testing.T) {
	assert.Equal(t, "finance", database.DatabaseName("postgres://u:p@host:5432/finance"))
	assert.Equal(t, "", database.DatabaseName("postgres://host"))
}
