package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateRegistry gives a test an empty, unsealed registry and restores the
// previous state afterwards.
func isolateRegistry(t *testing.T) {
	t.Helper()

	registryMu.Lock()
	saved, savedSealed := registry, sealed
	registry = make(map[Concept]TableDefinition)
	sealed = false
	registryMu.Unlock()

	t.Cleanup(func() {
		registryMu.Lock()
		registry, sealed = saved, savedSealed
		registryMu.Unlock()
	})
}

func sampleDef(key Concept, table string) TableDefinition {
	return TableDefinition{
		Info: TableInfo{Key: key, Table: table, Label: string(key)},
		ColumnSpecs: []ColumnSpec{
			{Name: "id", Type: FieldUUID},
			{Name: "deleted_at", Type: FieldTimestamp, Nullable: true},
		},
	}
}

func TestRegister_DerivesColumns(t *testing.T) {
	isolateRegistry(t)

	Register(sampleDef(ConceptHolidays, "h"))

	def, ok := Get(ConceptHolidays)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "deleted_at"}, def.Info.Columns)
}

func TestRegister_Rejects(t *testing.T) {
	tests := []struct {
		name string
		def  TableDefinition
	}{
		{"empty key", sampleDef("", "x")},
		{"empty table", sampleDef(ConceptHolidays, "  ")},
		{"duplicate key", sampleDef(ConceptTransactions, "other")},
		{"duplicate table", sampleDef(ConceptHolidays, "finance_transactions")},
		{"undocumented soft delete column", TableDefinition{
			Info: TableInfo{Key: ConceptHolidays, Table: "h", SoftDeleteColumn: "removed_at"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateRegistry(t)
			Register(sampleDef(ConceptTransactions, "finance_transactions"))

			assert.Panics(t, func() { Register(tt.def) })
			assert.Equal(t, 1, TableCount())
		})
	}
}

func TestSeal_BlocksRegister(t *testing.T) {
	isolateRegistry(t)
	Register(sampleDef(ConceptTransactions, "t"))
	Seal()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		assert.True(t, errors.Is(err, ErrRegistrySealed))
	}()
	Register(sampleDef(ConceptHolidays, "h"))
}

func TestTableName_Unknown(t *testing.T) {
	isolateRegistry(t)

	_, err := TableName("payroll")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTable)
	assert.Panics(t, func() { MustTableName("payroll") })
}

func TestAll_SortedByKey(t *testing.T) {
	isolateRegistry(t)
	Register(sampleDef(ConceptTransactions, "t"))
	Register(sampleDef(ConceptBankStatements, "b"))
	Register(sampleDef(ConceptHolidays, "h"))

	var keys []Concept
	for _, def := range All() {
		keys = append(keys, def.Info.Key)
	}
	assert.Equal(t, []Concept{ConceptBankStatements, ConceptHolidays, ConceptTransactions}, keys)
	assert.Equal(t, keys, Concepts())
}

func TestParseConcept(t *testing.T) {
	isolateRegistry(t)
	Register(sampleDef(ConceptBankStatements, "b"))
	Register(sampleDef(ConceptEmployeesDaily, "e"))

	tests := []struct {
		in      string
		want    Concept
		wantErr bool
	}{
		{"bankStatements", ConceptBankStatements, false},
		{"bank_statements", ConceptBankStatements, false},
		{" employeesDaily ", ConceptEmployeesDaily, false},
		{"EMPLOYEES_DAILY", ConceptEmployeesDaily, false},
		{"holidays", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseConcept(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownTable, "ParseConcept(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseConcept(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseConcept(%q)", tt.in)
	}
}

func TestFieldType_String(t *testing.T) {
	assert.Equal(t, "numeric", FieldNumeric.String())
	assert.Equal(t, "timestamptz", FieldTimestamp.String())
	assert.Equal(t, "unknown", FieldType(99).String())
}

func TestFieldType_TextRoundTrip(t *testing.T) {
	var ft FieldType
	require.NoError(t, ft.UnmarshalText([]byte("timestamptz")))
	assert.Equal(t, FieldTimestamp, ft)

	assert.Error(t, ft.UnmarshalText([]byte("varchar")))
}
