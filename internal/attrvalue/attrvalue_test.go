package attrvalue

import (
	"encoding/json"
	"testing"
)

func TestValueRoundTripsStringVariant(t *testing.T) {
	v := String("hello")
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(raw) != `{"S":"hello"}` {
		t.Fatalf("Marshal = %s, want {\"S\":\"hello\"}", raw)
	}

	var decoded Value
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	s, ok := decoded.AsString()
	if !ok || s != "hello" {
		t.Fatalf("AsString() = (%q, %v), want (hello, true)", s, ok)
	}
}

func TestAsStringFalseForNonStringVariants(t *testing.T) {
	n := "1"
	v := Value{N: &n}
	if _, ok := v.AsString(); ok {
		t.Fatal("AsString() = true for an N-typed value, want false")
	}
}

func TestScalarTypeRejectsUnknownType(t *testing.T) {
	var s ScalarType
	if err := json.Unmarshal([]byte(`"X"`), &s); err == nil {
		t.Fatal("Unmarshal succeeded for unknown scalar type, want error")
	}
}

func TestItemCloneIsIndependent(t *testing.T) {
	orig := Item{"pk": String("a")}
	clone := orig.Clone()
	clone["pk"] = String("b")
	if s, _ := orig["pk"].AsString(); s != "a" {
		t.Fatalf("mutating the clone changed the original: %q", s)
	}
}
