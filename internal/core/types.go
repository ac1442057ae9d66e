package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Concept identifies a logical category of financial record.
type Concept string

const (
	ConceptTransactions   Concept = "transactions"
	ConceptBankStatements Concept = "bankStatements"
	ConceptEmployeesDaily Concept = "employeesDaily"
	ConceptHolidays       Concept = "holidays"
)

// String implements fmt.Stringer.
func (c Concept) String() string { return string(c) }

// FieldType represents the expected data type of a table column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldUUID
	FieldDate
	FieldTimestamp
	FieldNumeric
	FieldInteger
	FieldBool
)

var fieldTypeNames = map[FieldType]string{
	FieldText:      "text",
	FieldUUID:      "uuid",
	FieldDate:      "date",
	FieldTimestamp: "timestamptz",
	FieldNumeric:   "numeric",
	FieldInteger:   "integer",
	FieldBool:      "boolean",
}

// String returns the PostgreSQL type name the column is documented with.
func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets FieldType render as its type name in JSON and YAML.
func (t FieldType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a type name written by MarshalText.
func (t *FieldType) UnmarshalText(text []byte) error {
	for ft, name := range fieldTypeNames {
		if name == string(text) {
			*t = ft
			return nil
		}
	}
	return fmt.Errorf("unknown field type %q", text)
}

// ColumnSpec documents a single column of an external table.
type ColumnSpec struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Nullable bool      `json:"nullable" yaml:"nullable"`
	Doc      string    `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// TableInfo contains identifying information about a registered table.
type TableInfo struct {
	Key              Concept  `json:"key" yaml:"key"`                                               // Domain concept: "transactions"
	Table            string   `json:"table" yaml:"table"`                                           // Physical table: "finance_transactions"
	Label            string   `json:"label" yaml:"label"`                                           // Display name: "Transactions"
	SoftDeleteColumn string   `json:"softDeleteColumn,omitempty" yaml:"softDeleteColumn,omitempty"` // Rows with a non-NULL value here are treated as deleted
	Columns          []string `json:"columns" yaml:"columns"`                                       // Column names, derived from ColumnSpecs
}

// TableDefinition is a registry entry.
type TableDefinition struct {
	Info        TableInfo    `json:"info" yaml:"info"`
	ColumnSpecs []ColumnSpec `json:"columnSpecs" yaml:"columnSpecs"`
}

// HasColumn reports whether the definition documents the named column.
func (t TableDefinition) HasColumn(name string) bool {
	for _, spec := range t.ColumnSpecs {
		if spec.Name == name {
			return true
		}
	}
	return false
}

// clone returns a deep copy so callers can never reach registry storage.
func (t TableDefinition) clone() TableDefinition {
	out := t
	out.Info.Columns = append([]string(nil), t.Info.Columns...)
	out.ColumnSpecs = append([]ColumnSpec(nil), t.ColumnSpecs...)
	return out
}

// TableSchemaStatus compares one registered table with the live database.
type TableSchemaStatus struct {
	Concept        Concept  `json:"concept" yaml:"concept"`
	Table          string   `json:"table" yaml:"table"`
	Exists         bool     `json:"exists" yaml:"exists"`
	MissingColumns []string `json:"missingColumns,omitempty" yaml:"missingColumns,omitempty"`
	ExtraColumns   []string `json:"extraColumns,omitempty" yaml:"extraColumns,omitempty"`
}

// OK reports whether the table exists and carries every documented column.
// Extra columns are tolerated.
func (s TableSchemaStatus) OK() bool {
	return s.Exists && len(s.MissingColumns) == 0
}

// SchemaReport is the result of Service.CheckSchema.
type SchemaReport struct {
	ID        string              `json:"id" yaml:"id"`
	Schema    string              `json:"schema" yaml:"schema"`
	CheckedAt time.Time           `json:"checkedAt" yaml:"checkedAt"`
	Tables    []TableSchemaStatus `json:"tables" yaml:"tables"`
	OK        bool                `json:"ok" yaml:"ok"`
}
