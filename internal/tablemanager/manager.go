// Package tablemanager indexes every table an account has created, across
// regions, and implements the operations that act across tables
// (ListTables, DeleteTable, BatchWriteItem) on top of the table package.
package tablemanager

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"ddblocal/internal/attrvalue"
	"ddblocal/internal/table"
	apperrors "ddblocal/pkg/errors"
)

// DefaultAccountID is used for every request, since this emulator has no
// notion of IAM principals or multi-account isolation.
const DefaultAccountID = "000000000000"

// DefaultRegion is the only region this emulator models.
const DefaultRegion = "us-east-1"

// Manager is the root of the account -> region -> tables index. It holds
// no locking of its own: callers (the dispatcher) serialize access with a
// single RWMutex, matching the coarse-grained Arc<RwLock<TableManager>>
// model of the reference implementation.
type Manager struct {
	perAccount map[string]map[string][]*table.Table // accountID -> region -> tables
	now        func() time.Time
}

// New returns an empty manager. now is injectable for deterministic tests.
func New(now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		perAccount: make(map[string]map[string][]*table.Table),
		now:        now,
	}
}

// NewTable creates and registers a table under account/region.
func (m *Manager) NewTable(accountID, region, name string, attrs []attrvalue.AttributeDefinition, schema []attrvalue.KeySchemaElement) (*table.Table, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.KindInvalidOperation, "TableName must not be empty")
	}
	if m.findTable(name) != nil {
		return nil, apperrors.New(apperrors.KindInvalidOperation, fmt.Sprintf("table %q already exists", name))
	}

	t, err := table.New(name, accountID, region, uuid.NewString(), attrs, schema, m.now())
	if err != nil {
		return nil, err
	}

	byRegion, ok := m.perAccount[accountID]
	if !ok {
		byRegion = make(map[string][]*table.Table)
		m.perAccount[accountID] = byRegion
	}
	byRegion[region] = append(byRegion[region], t)
	return t, nil
}

// GetTable finds a table by name, scanning every account and region. Table
// names are globally unique in this emulator, matching the reference
// implementation's DeleteTable/GetTable semantics.
func (m *Manager) GetTable(name string) (*table.Table, bool) {
	t := m.findTable(name)
	return t, t != nil
}

func (m *Manager) findTable(name string) *table.Table {
	for _, byRegion := range m.perAccount {
		for _, tables := range byRegion {
			for _, t := range tables {
				if t.Name == name {
					return t
				}
			}
		}
	}
	return nil
}

// TableNames returns every table name across every account and region.
func (m *Manager) TableNames() []string {
	var names []string
	for _, byRegion := range m.perAccount {
		for _, tables := range byRegion {
			for _, t := range tables {
				names = append(names, t.Name)
			}
		}
	}
	return names
}

// DeleteTable removes every table with the given name, across every account
// and region. It never fails, matching the reference implementation: a
// delete of a name that doesn't exist is a no-op.
func (m *Manager) DeleteTable(name string) {
	for account, byRegion := range m.perAccount {
		for region, tables := range byRegion {
			kept := tables[:0]
			for _, t := range tables {
				if t.Name != name {
					kept = append(kept, t)
				}
			}
			m.perAccount[account][region] = kept
		}
	}
}

// BatchPutRequest is one entry of a BatchWriteItem RequestItems list.
type BatchPutRequest struct {
	Item attrvalue.Item
}

// BatchWriteItem inserts every requested item, grouped by table name. Items
// destined for a table that doesn't exist, or that fail to insert, are
// returned as unprocessed rather than aborting the whole batch.
func (m *Manager) BatchWriteItem(requestItems map[string][]BatchPutRequest) map[string][]BatchPutRequest {
	unprocessed := make(map[string][]BatchPutRequest)
	for tableName, requests := range requestItems {
		t, ok := m.GetTable(tableName)
		if !ok {
			unprocessed[tableName] = append(unprocessed[tableName], requests...)
			continue
		}
		for _, req := range requests {
			if err := t.Insert(req.Item); err != nil {
				unprocessed[tableName] = append(unprocessed[tableName], req)
			}
		}
	}
	return unprocessed
}
