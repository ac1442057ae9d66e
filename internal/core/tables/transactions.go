package tables

import "github.com/JonMunkholm/conciliacao/internal/core"

// TransactionsTable stores ledger entries entered by hand or imported.
const TransactionsTable = "finance_transactions"

func registerTransactions() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:              core.ConceptTransactions,
			Table:            TransactionsTable,
			Label:            "Transactions",
			SoftDeleteColumn: "deleted_at",
		},
		ColumnSpecs: []core.ColumnSpec{
			{Name: "id", Type: core.FieldUUID},
			{Name: "type", Type: core.FieldText, Doc: "entrada or saida"},
			{Name: "method", Type: core.FieldText, Nullable: true, Doc: "payment method: pix, boleto, cartao, dinheiro"},
			{Name: "date", Type: core.FieldDate, Doc: "effective date, may be moved to the next business day"},
			{Name: "original_date", Type: core.FieldDate, Nullable: true, Doc: "date as first entered"},
			{Name: "description", Type: core.FieldText},
			{Name: "amount", Type: core.FieldNumeric},
			{Name: "matched", Type: core.FieldBool},
			{Name: "matched_id", Type: core.FieldUUID, Nullable: true, Doc: "bank statement line this entry is matched with"},
			{Name: "deleted_at", Type: core.FieldTimestamp, Nullable: true},
		},
	})
}
