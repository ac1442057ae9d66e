package tables

import "github.com/JonMunkholm/conciliacao/internal/core"

// BankStatementsTable stores lines imported from bank statements.
const BankStatementsTable = "finance_bank_statements"

func registerBankStatements() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   core.ConceptBankStatements,
			Table: BankStatementsTable,
			Label: "Bank Statements",
		},
		ColumnSpecs: []core.ColumnSpec{
			{Name: "id", Type: core.FieldUUID},
			{Name: "date", Type: core.FieldDate},
			{Name: "description", Type: core.FieldText},
			{Name: "amount", Type: core.FieldNumeric, Doc: "negative for debits"},
			{Name: "type", Type: core.FieldText, Nullable: true},
			{Name: "balance", Type: core.FieldNumeric, Nullable: true},
			{Name: "matched", Type: core.FieldBool},
			{Name: "matched_id", Type: core.FieldUUID, Nullable: true, Doc: "transaction this line is matched with"},
			{Name: "imported_at", Type: core.FieldTimestamp},
		},
	})
}
