package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/conciliacao/internal/database/dbtest"
)

func registerSampleTables(t *testing.T) {
	t.Helper()
	isolateRegistry(t)

	Register(TableDefinition{
		Info: TableInfo{Key: ConceptTransactions, Table: "finance_transactions", SoftDeleteColumn: "deleted_at"},
		ColumnSpecs: []ColumnSpec{
			{Name: "id", Type: FieldUUID},
			{Name: "amount", Type: FieldNumeric},
			{Name: "deleted_at", Type: FieldTimestamp, Nullable: true},
		},
	})
	Register(TableDefinition{
		Info: TableInfo{Key: ConceptHolidays, Table: "finance_holidays"},
		ColumnSpecs: []ColumnSpec{
			{Name: "id", Type: FieldUUID},
			{Name: "date", Type: FieldDate},
		},
	})
	Seal()
}

func TestService_ListTables(t *testing.T) {
	registerSampleTables(t)

	infos := NewService(nil, ServiceConfig{}).ListTables()
	require.Len(t, infos, 2)
	assert.Equal(t, ConceptHolidays, infos[0].Key)
	assert.Equal(t, []string{"id", "date"}, infos[0].Columns)
	assert.Equal(t, ConceptTransactions, infos[1].Key)
}

func TestService_GetTable_Unknown(t *testing.T) {
	registerSampleTables(t)

	_, err := NewService(nil, ServiceConfig{}).GetTable("payroll")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestService_CountRows(t *testing.T) {
	registerSampleTables(t)
	fake := &dbtest.DB{Counts: map[string]int64{"finance_transactions": 41}}
	svc := NewService(fake, ServiceConfig{Schema: "public"})

	n, err := svc.CountRows(context.Background(), ConceptTransactions)
	require.NoError(t, err)
	assert.Equal(t, int64(41), n)
	assert.Equal(t,
		[]string{`SELECT count(*) FROM "public"."finance_transactions" WHERE "deleted_at" IS NULL`},
		fake.Statements())
}

func TestService_CountRows_Errors(t *testing.T) {
	registerSampleTables(t)

	_, err := NewService(nil, ServiceConfig{}).CountRows(context.Background(), ConceptHolidays)
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)

	_, err = NewService(&dbtest.DB{}, ServiceConfig{}).CountRows(context.Background(), "payroll")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestService_Ping(t *testing.T) {
	assert.ErrorIs(t, NewService(nil, ServiceConfig{}).Ping(context.Background()), ErrDatabaseUnavailable)
	assert.NoError(t, NewService(&dbtest.DB{}, ServiceConfig{}).Ping(context.Background()))

	down := errors.New("connection refused")
	assert.ErrorIs(t, NewService(&dbtest.DB{PingErr: down}, ServiceConfig{}).Ping(context.Background()), down)
}

func TestService_CheckSchema(t *testing.T) {
	registerSampleTables(t)
	fake := &dbtest.DB{Columns: map[string][]string{
		"finance_transactions": {"id", "amount", "created_at"},
	}}
	svc := NewService(fake, ServiceConfig{Schema: "public"})
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	report, err := svc.CheckSchema(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "public", report.Schema)
	assert.Equal(t, fixed, report.CheckedAt)
	assert.False(t, report.OK)

	require.Len(t, report.Tables, 2)

	holidays := report.Tables[0]
	assert.Equal(t, ConceptHolidays, holidays.Concept)
	assert.False(t, holidays.Exists)
	assert.Equal(t, []string{"id", "date"}, holidays.MissingColumns)

	txns := report.Tables[1]
	assert.True(t, txns.Exists)
	assert.Equal(t, []string{"deleted_at"}, txns.MissingColumns)
	assert.Equal(t, []string{"created_at"}, txns.ExtraColumns)
	assert.False(t, txns.OK())
}

func TestService_CheckSchema_AllPresent(t *testing.T) {
	registerSampleTables(t)
	fake := &dbtest.DB{Columns: map[string][]string{
		"finance_transactions": {"id", "amount", "deleted_at"},
		"finance_holidays":     {"id", "date", "name"},
	}}

	report, err := NewService(fake, ServiceConfig{Schema: "public"}).CheckSchema(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK)
	for _, st := range report.Tables {
		assert.True(t, st.OK(), "%s", st.Table)
	}
}

func TestService_CheckSchema_QueryError(t *testing.T) {
	registerSampleTables(t)
	fake := &dbtest.DB{QueryErr: errors.New("permission denied for schema public")}

	_, err := NewService(fake, ServiceConfig{}).CheckSchema(context.Background())
	require.Error(t, err)
	assert.Equal(t, "DB003", MapError(err).Code)
}

func TestService_CheckSchema_NeverWrites(t *testing.T) {
	registerSampleTables(t)
	fake := &dbtest.DB{}

	_, err := NewService(fake, ServiceConfig{}).CheckSchema(context.Background())
	require.NoError(t, err)
	for _, stmt := range fake.Statements() {
		assert.Contains(t, stmt, "SELECT")
	}
}

func TestService_CountRows_Busy(t *testing.T) {
	registerSampleTables(t)

	svc := NewService(&dbtest.DB{}, ServiceConfig{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})
	require.NoError(t, svc.limiter.Acquire(context.Background()))
	defer svc.limiter.Release()

	_, err := svc.CountRows(context.Background(), ConceptHolidays)
	assert.ErrorIs(t, err, ErrTooManyQueries)
	assert.Equal(t, "DB006", MapError(err).Code)
	assert.Equal(t, 1, svc.QueryStatus().Active)
}
