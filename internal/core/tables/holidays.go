package tables

import "github.com/JonMunkholm/conciliacao/internal/core"

// HolidaysTable stores non-business days.
const HolidaysTable = "finance_holidays"

func registerHolidays() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   core.ConceptHolidays,
			Table: HolidaysTable,
			Label: "Holidays",
		},
		ColumnSpecs: []core.ColumnSpec{
			{Name: "id", Type: core.FieldUUID},
			{Name: "date", Type: core.FieldDate},
			{Name: "name", Type: core.FieldText},
			{Name: "recurring", Type: core.FieldBool, Doc: "repeats every year on the same day and month"},
		},
	})
}
