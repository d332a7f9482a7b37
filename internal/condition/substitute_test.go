package condition

import (
	"testing"

	"ddblocal/internal/attrvalue"
)

func TestSubstituteAllNodes(t *testing.T) {
	ast := Binop{
		LHS: Binop{LHS: Placeholder("a"), RHS: Placeholder("b"), Op: OpEq},
		RHS: Binop{LHS: Placeholder("c"), RHS: Placeholder("d"), Op: OpEq},
		Op:  OpAnd,
	}

	sub := &Substituter{
		Names: map[string]string{"#a": "e", "#c": "g"},
		Values: map[string]attrvalue.Value{
			":b": attrvalue.String("f"),
			":d": attrvalue.String("h"),
		},
	}

	got, err := sub.Substitute(ast)
	if err != nil {
		t.Fatalf("Substitute returned error: %v", err)
	}

	want := Binop{
		LHS: Binop{LHS: Attribute("e"), RHS: Attribute("f"), Op: OpEq},
		RHS: Binop{LHS: Attribute("g"), RHS: Attribute("h"), Op: OpEq},
		Op:  OpAnd,
	}
	if got != want {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSubstituteUnresolvedPlaceholder(t *testing.T) {
	sub := &Substituter{Names: map[string]string{}, Values: map[string]attrvalue.Value{}}
	if _, err := sub.Substitute(Placeholder("missing")); err == nil {
		t.Fatal("Substitute succeeded, want error for unresolved placeholder")
	}
}

func TestSubstituteLeavesAttributesAlone(t *testing.T) {
	sub := &Substituter{}
	got, err := sub.Substitute(Attribute("pk"))
	if err != nil {
		t.Fatalf("Substitute returned error: %v", err)
	}
	if got != Attribute("pk") {
		t.Fatalf("got %#v, want Attribute(pk)", got)
	}
}
