package table

import (
	"fmt"
	"strings"

	"ddblocal/internal/attrvalue"
	"ddblocal/internal/condition"
	apperrors "ddblocal/pkg/errors"
)

// Partition holds every item sharing one partition-key value, in the order
// they were inserted.
type Partition struct {
	Items []attrvalue.Item
}

func (p *Partition) allItems() []attrvalue.Item {
	out := make([]attrvalue.Item, len(p.Items))
	copy(out, p.Items)
	return out
}

// query evaluates a resolved sort-key predicate (Eq or begins_with) against
// the items in this partition.
func (p *Partition) query(predicate condition.Node) ([]attrvalue.Item, error) {
	switch n := predicate.(type) {
	case condition.Binop:
		if n.Op != condition.OpEq {
			return nil, apperrors.New(apperrors.KindUnimplemented, "only '=' is supported as a sort-key comparator")
		}
		attrName, err := attributeString(n.LHS)
		if err != nil {
			return nil, err
		}
		want, err := attributeString(n.RHS)
		if err != nil {
			return nil, err
		}
		return p.filter(func(item attrvalue.Item) bool {
			v, ok := item[attrName]
			if !ok {
				return false
			}
			s, ok := v.AsString()
			return ok && s == want
		}), nil

	case condition.FunctionCall:
		if n.Name != "begins_with" {
			return nil, apperrors.New(apperrors.KindUnimplemented, fmt.Sprintf("unsupported function %q", n.Name))
		}
		if len(n.Args) != 2 {
			return nil, apperrors.New(apperrors.KindParseError, "begins_with requires exactly two arguments")
		}
		attrName, err := attributeString(n.Args[0])
		if err != nil {
			return nil, err
		}
		prefix, err := attributeString(n.Args[1])
		if err != nil {
			return nil, err
		}
		return p.filter(func(item attrvalue.Item) bool {
			v, ok := item[attrName]
			if !ok {
				return false
			}
			s, ok := v.AsString()
			return ok && strings.HasPrefix(s, prefix)
		}), nil

	default:
		return nil, apperrors.New(apperrors.KindUnimplemented, fmt.Sprintf("unsupported sort-key condition shape %T", predicate))
	}
}

func (p *Partition) filter(pred func(attrvalue.Item) bool) []attrvalue.Item {
	var out []attrvalue.Item
	for _, item := range p.Items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}
