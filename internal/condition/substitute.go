package condition

import (
	"fmt"

	"ddblocal/internal/attrvalue"
	apperrors "ddblocal/pkg/errors"
)

// Substituter walks an AST produced by Parse and replaces every Placeholder
// with the literal attribute name or value it refers to, looking the name
// up in ExpressionAttributeNames (the "#name" map) and the value up in
// ExpressionAttributeValues (the ":name" map). It implements the same
// pre-order walk as the reference NodeVisitor, but returns a transformed
// copy rather than mutating in place, since Go's Node is an interface value.
type Substituter struct {
	Names  map[string]string
	Values map[string]attrvalue.Value
}

// Substitute resolves every placeholder in ast and returns the rewritten
// tree. It fails closed: an unresolvable placeholder is reported rather
// than silently left in place, since an unresolved placeholder downstream
// would otherwise be mistaken for a literal attribute name.
func (s *Substituter) Substitute(ast Node) (Node, error) {
	return s.visit(ast)
}

func (s *Substituter) visit(n Node) (Node, error) {
	switch v := n.(type) {
	case Binop:
		lhs, err := s.visit(v.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := s.visit(v.RHS)
		if err != nil {
			return nil, err
		}
		return Binop{LHS: lhs, RHS: rhs, Op: v.Op}, nil
	case FunctionCall:
		args := make([]Node, len(v.Args))
		for i, a := range v.Args {
			resolved, err := s.visit(a)
			if err != nil {
				return nil, err
			}
			args[i] = resolved
		}
		return FunctionCall{Name: v.Name, Args: args}, nil
	case Attribute:
		return v, nil
	case Placeholder:
		return s.resolve(string(v))
	default:
		return nil, fmt.Errorf("condition: unhandled node type %T", n)
	}
}

// resolve mirrors NodeVisitor::visit_placeholder: try the names map keyed
// by "#key" first, then the values map keyed by ":key".
func (s *Substituter) resolve(key string) (Node, error) {
	nameKey := "#" + key
	if name, ok := s.Names[nameKey]; ok {
		return Attribute(name), nil
	}

	valueKey := ":" + key
	if val, ok := s.Values[valueKey]; ok {
		str, ok := val.AsString()
		if !ok {
			return nil, apperrors.New(apperrors.KindNoAttributeValue,
				fmt.Sprintf("expression attribute value %q is not a string", valueKey))
		}
		return Attribute(str), nil
	}

	return nil, apperrors.New(apperrors.KindNoAttributeName,
		fmt.Sprintf("no expression attribute name or value found for placeholder %q", key))
}
