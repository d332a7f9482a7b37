package tablemanager

import (
	"testing"
	"time"

	"ddblocal/internal/attrvalue"
)

func fixedNow() time.Time { return time.Unix(0, 0) }

func hashKeySchema(name string) ([]attrvalue.AttributeDefinition, []attrvalue.KeySchemaElement) {
	return []attrvalue.AttributeDefinition{{AttributeName: name, AttributeType: attrvalue.ScalarTypeString}},
		[]attrvalue.KeySchemaElement{{AttributeName: name, KeyType: attrvalue.KeyTypeHash}}
}

func TestNewTableThenGetTable(t *testing.T) {
	m := New(fixedNow)
	attrs, schema := hashKeySchema("pk")
	if _, err := m.NewTable(DefaultAccountID, DefaultRegion, "widgets", attrs, schema); err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	if _, ok := m.GetTable("widgets"); !ok {
		t.Fatal("GetTable did not find the table just created")
	}
}

func TestNewTableRejectsDuplicateName(t *testing.T) {
	m := New(fixedNow)
	attrs, schema := hashKeySchema("pk")
	if _, err := m.NewTable(DefaultAccountID, DefaultRegion, "widgets", attrs, schema); err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	if _, err := m.NewTable(DefaultAccountID, DefaultRegion, "widgets", attrs, schema); err == nil {
		t.Fatal("NewTable succeeded for a duplicate name, want error")
	}
}

func TestDeleteTableNeverFails(t *testing.T) {
	m := New(fixedNow)
	m.DeleteTable("does-not-exist") // must not panic or otherwise signal failure

	attrs, schema := hashKeySchema("pk")
	m.NewTable(DefaultAccountID, DefaultRegion, "widgets", attrs, schema)
	m.DeleteTable("widgets")
	if _, ok := m.GetTable("widgets"); ok {
		t.Fatal("GetTable found a table after DeleteTable")
	}
}

func TestTableNames(t *testing.T) {
	m := New(fixedNow)
	attrs, schema := hashKeySchema("pk")
	m.NewTable(DefaultAccountID, DefaultRegion, "a", attrs, schema)
	m.NewTable(DefaultAccountID, DefaultRegion, "b", attrs, schema)
	names := m.TableNames()
	if len(names) != 2 {
		t.Fatalf("TableNames() = %v, want 2 entries", names)
	}
}

func TestBatchWriteItemReportsUnprocessedForMissingTable(t *testing.T) {
	m := New(fixedNow)
	unprocessed := m.BatchWriteItem(map[string][]BatchPutRequest{
		"missing": {{Item: attrvalue.Item{"pk": attrvalue.String("a")}}},
	})
	if len(unprocessed["missing"]) != 1 {
		t.Fatalf("BatchWriteItem unprocessed = %v, want one item under 'missing'", unprocessed)
	}
}

func TestBatchWriteItemInsertsIntoExistingTable(t *testing.T) {
	m := New(fixedNow)
	attrs, schema := hashKeySchema("pk")
	m.NewTable(DefaultAccountID, DefaultRegion, "widgets", attrs, schema)

	unprocessed := m.BatchWriteItem(map[string][]BatchPutRequest{
		"widgets": {{Item: attrvalue.Item{"pk": attrvalue.String("a")}}},
	})
	if len(unprocessed) != 0 {
		t.Fatalf("BatchWriteItem unprocessed = %v, want none", unprocessed)
	}
	tbl, _ := m.GetTable("widgets")
	if tbl.ItemCount() != 1 {
		t.Fatalf("ItemCount() = %d, want 1", tbl.ItemCount())
	}
}
