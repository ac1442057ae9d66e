// Package core holds the finance table registry and the read-only service
// built on top of it.
//
// The registry maps each finance domain concept to the physical table that
// stores it in the external Supabase (PostgreSQL) database, along with the
// columns that table is expected to carry. It is populated once by the
// [tables] package during initialisation and sealed immediately after, so
// for the lifetime of the process it behaves as a constant.
//
// # Table Registry
//
// Tables are registered at init time using [Register] and frozen with
// [Seal]:
//
//	core.Register(core.TableDefinition{
//	    Info: core.TableInfo{Key: core.ConceptHolidays, Table: "finance_holidays", Label: "Holidays"},
//	    ColumnSpecs: []core.ColumnSpec{
//	        {Name: "id", Type: core.FieldUUID},
//	        {Name: "date", Type: core.FieldDate},
//	    },
//	})
//	core.Seal()
//
// Readers ([Get], [All], [TableNames]) always receive copies. Any attempt to
// register after sealing panics with [ErrRegistrySealed].
//
// # Service
//
// [Service] exposes the registry together with a handful of read-only
// database operations: row counts per table and a schema report comparing
// the documented columns with what the live database reports. Nothing in
// this package writes to the finance tables or alters their schema.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]. Each
// category carries a code for support reference:
//
//   - TBL001-TBL002: Registry lookups
//   - DB001-DB005: Database connectivity and permissions
//   - CFG001-CFG002: Configuration problems
//   - REQ001-REQ002: Request cancellation and timeouts
//
// [tables]: github.com/JonMunkholm/conciliacao/internal/core/tables
package core
