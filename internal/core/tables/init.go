// Package tables registers the finance table definitions with the core
// registry and seals it. Import this package for its side effects before
// reading from the registry.
package tables

import "github.com/JonMunkholm/conciliacao/internal/core"

func init() {
	registerTransactions()
	registerBankStatements()
	registerEmployeesDaily()
	registerHolidays()

	core.Seal()
}
