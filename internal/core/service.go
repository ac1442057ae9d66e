package core

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/conciliacao/internal/database"
)

// DefaultQueryTimeout bounds each database call made by the service.
const DefaultQueryTimeout = 10 * time.Second

// Pinger is implemented by connection pools that can report liveness.
type Pinger interface {
	Ping(context.Context) error
}

// ServiceConfig holds the service settings.
type ServiceConfig struct {
	Schema        string        // Database schema holding the finance tables
	QueryTimeout  time.Duration // Per-query timeout; DefaultQueryTimeout if zero
	MaxConcurrent int           // Parallel queries; DefaultMaxConcurrentQueries if zero
	MaxWait       time.Duration // Wait for a query slot; DefaultQueryWait if zero
}

// Service provides read-only access to the registry and the finance tables.
type Service struct {
	db           DBTX
	schema       string
	queryTimeout time.Duration
	limiter      *QueryLimiter
	now          func() time.Time
}

// NewService creates a new Service. db may be nil, in which case every
// database operation returns ErrDatabaseUnavailable.
func NewService(db DBTX, cfg ServiceConfig) *Service {
	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Service{
		db:           db,
		schema:       cfg.Schema,
		queryTimeout: timeout,
		limiter:      NewQueryLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		now:          time.Now,
	}
}

// Schema returns the database schema the service reads from.
func (s *Service) Schema() string { return s.schema }

// ListTables returns information about all registered tables.
func (s *Service) ListTables() []TableInfo {
	defs := All()
	infos := make([]TableInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// GetTable returns the definition for a concept.
func (s *Service) GetTable(key Concept) (TableDefinition, error) {
	def, ok := Get(key)
	if !ok {
		return TableDefinition{}, fmt.Errorf("%w: %s", ErrUnknownTable, key)
	}
	return def, nil
}

// Ping checks that the database answers.
func (s *Service) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrDatabaseUnavailable
	}
	p, ok := s.db.(Pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return p.Ping(ctx)
}

// QueryStatus reports how many query slots are in use.
func (s *Service) QueryStatus() QueryLimiterStatus {
	return s.limiter.Status()
}

// WaitForQueries blocks until in-flight queries finish or ctx ends.
func (s *Service) WaitForQueries(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// CountRows returns the number of live rows in the table for a concept.
// Soft-deleted rows are excluded for tables that have a soft delete column.
func (s *Service) CountRows(ctx context.Context, key Concept) (int64, error) {
	def, err := s.GetTable(key)
	if err != nil {
		return 0, err
	}
	if s.db == nil {
		return 0, ErrDatabaseUnavailable
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return 0, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return database.New(s.db).CountRows(ctx, s.schema, def.Info.Table, def.Info.SoftDeleteColumn)
}

// CheckSchema compares every registered table with the columns the live
// database reports. It only reads information_schema.
func (s *Service) CheckSchema(ctx context.Context) (*SchemaReport, error) {
	if s.db == nil {
		return nil, ErrDatabaseUnavailable
	}

	defs := All()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Info.Table
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	live, err := database.New(s.db).TableColumns(ctx, s.schema, names)
	if err != nil {
		return nil, fmt.Errorf("check schema: %w", err)
	}

	report := &SchemaReport{
		ID:        uuid.New().String(),
		Schema:    s.schema,
		CheckedAt: s.now().UTC(),
		Tables:    compareSchema(defs, live),
		OK:        true,
	}
	for _, st := range report.Tables {
		if !st.OK() {
			report.OK = false
		}
	}

	slog.Info("schema check finished",
		"report_id", report.ID,
		"schema", report.Schema,
		"ok", report.OK,
	)

	return report, nil
}

// compareSchema diffs documented columns against live columns per table.
func compareSchema(defs []TableDefinition, live map[string][]string) []TableSchemaStatus {
	result := make([]TableSchemaStatus, 0, len(defs))

	for _, def := range defs {
		st := TableSchemaStatus{Concept: def.Info.Key, Table: def.Info.Table}

		cols, exists := live[def.Info.Table]
		st.Exists = exists
		if !exists {
			st.MissingColumns = append([]string(nil), def.Info.Columns...)
			result = append(result, st)
			continue
		}

		have := make(map[string]bool, len(cols))
		for _, c := range cols {
			have[c] = true
		}
		for _, c := range def.Info.Columns {
			if !have[c] {
				st.MissingColumns = append(st.MissingColumns, c)
			}
			delete(have, c)
		}
		for c := range have {
			st.ExtraColumns = append(st.ExtraColumns, c)
		}
		sort.Strings(st.ExtraColumns)

		result = append(result, st)
	}

	return result
}
