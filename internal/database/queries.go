package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CountRows returns the number of rows in schema.table. When
// softDeleteColumn is set, rows where that column is not NULL are excluded.
func (q *Queries) CountRows(ctx context.Context, schema, table, softDeleteColumn string) (int64, error) {
	sql := "SELECT count(*) FROM " + qualify(schema, table)
	if softDeleteColumn != "" {
		sql += " WHERE " + pgx.Identifier{softDeleteColumn}.Sanitize() + " IS NULL"
	}

	var n int64
	if err := q.db.QueryRow(ctx, sql).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

const tableColumns = `SELECT table_name, column_name
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = ANY($2)
ORDER BY table_name, ordinal_position`

// TableColumns returns the column names of each requested table that exists
// in schema, in ordinal order. Tables that do not exist are absent from the
// result.
func (q *Queries) TableColumns(ctx context.Context, schema string, tables []string) (map[string][]string, error) {
	rows, err := q.db.Query(ctx, tableColumns, schema, tables)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]string, len(tables))
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		result[table] = append(result[table], column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	return result, nil
}

func qualify(schema, table string) string {
	if schema == "" {
		return pgx.Identifier{table}.Sanitize()
	}
	return pgx.Identifier{schema, table}.Sanitize()
}
