package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownTable is returned for a concept that is not registered.
	ErrUnknownTable = errors.New("unknown table")

	// ErrRegistrySealed is the panic value when the registry is mutated after Seal.
	ErrRegistrySealed = errors.New("table registry is sealed")
)

var (
	registry   = make(map[Concept]TableDefinition)
	registryMu sync.RWMutex
	sealed     bool
)

// Register adds a table definition to the registry.
// Panics if the registry is sealed, the definition is incomplete, or the key
// or table name is already registered.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if sealed {
		panic(fmt.Errorf("register %s: %w", def.Info.Key, ErrRegistrySealed))
	}
	if def.Info.Key == "" {
		panic("table definition has empty key")
	}
	if strings.TrimSpace(def.Info.Table) == "" {
		panic(fmt.Sprintf("table definition %s has empty table name", def.Info.Key))
	}
	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}
	for _, other := range registry {
		if other.Info.Table == def.Info.Table {
			panic(fmt.Sprintf("table name %s already used by %s", def.Info.Table, other.Info.Key))
		}
	}
	if def.Info.SoftDeleteColumn != "" && !def.HasColumn(def.Info.SoftDeleteColumn) {
		panic(fmt.Sprintf("table %s: soft delete column %s is not documented", def.Info.Key, def.Info.SoftDeleteColumn))
	}

	def = def.clone()
	def.Info.Columns = make([]string, len(def.ColumnSpecs))
	for i, spec := range def.ColumnSpecs {
		def.Info.Columns[i] = spec.Name
	}

	registry[def.Info.Key] = def
}

// Seal freezes the registry. Subsequent calls to Register panic.
func Seal() {
	registryMu.Lock()
	defer registryMu.Unlock()
	sealed = true
}

// Sealed reports whether Seal has been called.
func Sealed() bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sealed
}

// Get returns a copy of the table definition for a concept.
// Returns false if not found.
func Get(key Concept) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	if !ok {
		return TableDefinition{}, false
	}
	return def.clone(), true
}

// TableName returns the physical table name for a concept.
func TableName(key Concept) (string, error) {
	def, ok := Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTable, key)
	}
	return def.Info.Table, nil
}

// MustTableName is like TableName but panics for an unknown concept.
// Intended for the fixed concept constants.
func MustTableName(key Concept) string {
	name, err := TableName(key)
	if err != nil {
		panic(err)
	}
	return name
}

// All returns copies of all registered table definitions, sorted by key.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def.clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Concepts returns all registered concepts, sorted.
func Concepts() []Concept {
	registryMu.RLock()
	defer registryMu.RUnlock()

	keys := make([]Concept, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// TableNames returns a fresh concept -> table name map.
// Modifying the returned map has no effect on the registry.
func TableNames() map[Concept]string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make(map[Concept]string, len(registry))
	for k, def := range registry {
		names[k] = def.Info.Table
	}
	return names
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// ParseConcept resolves a concept from its key. The snake_case spelling
// ("bank_statements") is accepted as well as the canonical camelCase one.
func ParseConcept(s string) (Concept, error) {
	s = strings.TrimSpace(s)
	if _, ok := Get(Concept(s)); ok {
		return Concept(s), nil
	}

	folded := strings.ReplaceAll(strings.ToLower(s), "_", "")
	for _, c := range Concepts() {
		if strings.ToLower(string(c)) == folded {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTable, s)
}
