// Package table implements a single DynamoDB-style table: a partitioned,
// insertion-ordered collection of items plus the query/scan logic that
// evaluates a compiled condition.Node against it.
package table

import (
	"fmt"
	"time"

	"ddblocal/internal/attrvalue"
	"ddblocal/internal/condition"
	apperrors "ddblocal/pkg/errors"
)

// Table holds every item belonging to one DynamoDB table, grouped into
// partitions keyed by the string form of the partition key attribute.
// Partitions are kept in insertion order; this emulator makes no attempt
// at sort-key ordering within a partition (see Non-goals).
type Table struct {
	Name                 string
	AttributeDefinitions []attrvalue.AttributeDefinition
	KeySchema            []attrvalue.KeySchemaElement
	AccountID            string
	Region               string
	TableID              string
	CreatedAt            time.Time

	partitionKey string
	sortKey      string // empty if the table has no range key

	order      []string // partition keys, in first-seen order
	partitions map[string]*Partition
}

// New constructs a table from a CreateTable-style input. KeySchema must
// name exactly one HASH key and at most one RANGE key.
func New(name, accountID, region, tableID string, attrs []attrvalue.AttributeDefinition, schema []attrvalue.KeySchemaElement, now time.Time) (*Table, error) {
	t := &Table{
		Name:                 name,
		AttributeDefinitions: attrs,
		KeySchema:            schema,
		AccountID:            accountID,
		Region:               region,
		TableID:              tableID,
		CreatedAt:            now,
		partitions:           make(map[string]*Partition),
	}
	for _, k := range schema {
		switch k.KeyType {
		case attrvalue.KeyTypeHash:
			t.partitionKey = k.AttributeName
		case attrvalue.KeyTypeRange:
			t.sortKey = k.AttributeName
		}
	}
	if t.partitionKey == "" {
		return nil, apperrors.New(apperrors.KindMissingPartitionKey, "key schema has no HASH key")
	}
	return t, nil
}

// PartitionKeyName returns the name of the table's hash key attribute.
func (t *Table) PartitionKeyName() string { return t.partitionKey }

// SortKeyName returns the name of the table's range key attribute, or "" if
// the table has none.
func (t *Table) SortKeyName() string { return t.sortKey }

// Insert appends item to its partition. Matching the reference
// implementation, a duplicate key does not replace the existing item: it is
// appended alongside it. PutItem is therefore "insert", not "upsert".
func (t *Table) Insert(item attrvalue.Item) error {
	pkValue, ok := item[t.partitionKey]
	if !ok {
		return apperrors.New(apperrors.KindMissingPartitionKey,
			fmt.Sprintf("item is missing partition key %q", t.partitionKey))
	}
	pkStr, ok := pkValue.AsString()
	if !ok {
		return apperrors.New(apperrors.KindInvalidPartitionKey,
			fmt.Sprintf("partition key %q must be a string attribute", t.partitionKey))
	}

	part, ok := t.partitions[pkStr]
	if !ok {
		part = &Partition{}
		t.partitions[pkStr] = part
		t.order = append(t.order, pkStr)
	}
	part.Items = append(part.Items, item.Clone())
	return nil
}

// GetItem returns the first item whose key attributes match key, along with
// whether anything matched.
func (t *Table) GetItem(key attrvalue.Item) (attrvalue.Item, bool) {
	pkValue, ok := key[t.partitionKey]
	if !ok {
		return nil, false
	}
	pkStr, ok := pkValue.AsString()
	if !ok {
		return nil, false
	}
	part, ok := t.partitions[pkStr]
	if !ok {
		return nil, false
	}

	if t.sortKey == "" {
		if len(part.Items) == 0 {
			return nil, false
		}
		return part.Items[0], true
	}

	skValue, ok := key[t.sortKey]
	if !ok {
		return nil, false
	}
	skStr, ok := skValue.AsString()
	if !ok {
		return nil, false
	}
	for _, item := range part.Items {
		if v, ok := item[t.sortKey]; ok {
			if s, ok := v.AsString(); ok && s == skStr {
				return item, true
			}
		}
	}
	return nil, false
}

// Query parses and evaluates a KeyConditionExpression against this table,
// returning items in partition- and then insertion-order.
func (t *Table) Query(expr string, names map[string]string, values map[string]attrvalue.Value) ([]attrvalue.Item, error) {
	ast, err := condition.Parse(expr)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindParseError, err, "parsing key condition expression")
	}

	sub := &condition.Substituter{Names: names, Values: values}
	resolved, err := sub.Substitute(ast)
	if err != nil {
		return nil, err
	}

	switch n := resolved.(type) {
	case condition.Binop:
		if n.Op == condition.OpEq {
			return t.queryPartitionOnly(n)
		}
		if n.Op == condition.OpAnd {
			return t.queryPartitionAndSort(n)
		}
	}
	return nil, apperrors.New(apperrors.KindUnimplemented,
		"key condition expression does not match a supported shape (key = value, or key = value AND sort-key-condition)")
}

// queryPartitionOnly handles Binop{Eq, Attribute(key), Attribute(value)}:
// a query against the partition key alone.
func (t *Table) queryPartitionOnly(n condition.Binop) ([]attrvalue.Item, error) {
	value, err := t.resolvePartitionEquality(n)
	if err != nil {
		return nil, err
	}
	part, ok := t.partitions[value]
	if !ok {
		return nil, nil
	}
	return part.allItems(), nil
}

// queryPartitionAndSort handles Binop{And, lhs=Binop{Eq, pk, value}, rhs=cond}
// where rhs is a sort-key Eq or begins_with predicate evaluated within the
// selected partition.
func (t *Table) queryPartitionAndSort(n condition.Binop) ([]attrvalue.Item, error) {
	pkBinop, ok := n.LHS.(condition.Binop)
	if !ok || pkBinop.Op != condition.OpEq {
		return nil, apperrors.New(apperrors.KindUnimplemented,
			"AND clause must begin with a partition-key equality condition")
	}
	pkValue, err := t.resolvePartitionEquality(pkBinop)
	if err != nil {
		return nil, err
	}
	part, ok := t.partitions[pkValue]
	if !ok {
		return nil, nil
	}
	return part.query(n.RHS)
}

// resolvePartitionEquality requires n to equate the table's partition key
// attribute against a literal value, returning that value.
func (t *Table) resolvePartitionEquality(n condition.Binop) (string, error) {
	key, err := attributeString(n.LHS)
	if err != nil {
		return "", err
	}
	if key != t.partitionKey {
		return "", apperrors.New(apperrors.KindInvalidPartitionKey,
			fmt.Sprintf("key condition must equate partition key %q, got %q", t.partitionKey, key))
	}
	return attributeString(n.RHS)
}

func attributeString(n condition.Node) (string, error) {
	attr, ok := n.(condition.Attribute)
	if !ok {
		return "", apperrors.New(apperrors.KindUnimplemented,
			fmt.Sprintf("expected a resolved attribute, got %T", n))
	}
	return string(attr), nil
}

// Scan returns every item in the table, in partition-creation then
// insertion order.
func (t *Table) Scan() []attrvalue.Item {
	var out []attrvalue.Item
	for _, pk := range t.order {
		out = append(out, t.partitions[pk].allItems()...)
	}
	return out
}

// ItemCount returns the total number of items across all partitions.
func (t *Table) ItemCount() int {
	n := 0
	for _, pk := range t.order {
		n += len(t.partitions[pk].Items)
	}
	return n
}
