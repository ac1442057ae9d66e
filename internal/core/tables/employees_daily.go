package tables

import "github.com/JonMunkholm/conciliacao/internal/core"

// EmployeesDailyTable stores the daily rate paid to each employee.
const EmployeesDailyTable = "finance_employees_daily"

func registerEmployeesDaily() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   core.ConceptEmployeesDaily,
			Table: EmployeesDailyTable,
			Label: "Employee Daily Rates",
		},
		ColumnSpecs: []core.ColumnSpec{
			{Name: "id", Type: core.FieldUUID},
			{Name: "employee_name", Type: core.FieldText},
			{Name: "role", Type: core.FieldText, Nullable: true},
			{Name: "daily_rate", Type: core.FieldNumeric},
			{Name: "start_date", Type: core.FieldDate},
			{Name: "end_date", Type: core.FieldDate, Nullable: true, Doc: "NULL while the rate is current"},
			{Name: "active", Type: core.FieldBool},
		},
	})
}
