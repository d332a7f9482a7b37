// Package attrvalue implements the DynamoDB AttributeValue wire format: a
// tagged union encoded as a single-key JSON object such as {"S": "hello"}.
package attrvalue

import (
	"encoding/json"
	"fmt"
)

// Value is an AttributeValue as it appears on the wire. Only String is
// interpreted by the condition-expression engine; the remaining variants are
// carried through opaquely so items round-trip even when their content is
// never evaluated.
type Value struct {
	S    *string          `json:"S,omitempty"`
	N    *string          `json:"N,omitempty"`
	B    []byte           `json:"B,omitempty"`
	SS   []string         `json:"SS,omitempty"`
	NS   []string         `json:"NS,omitempty"`
	BS   [][]byte         `json:"BS,omitempty"`
	BOOL *bool            `json:"BOOL,omitempty"`
	NULL *bool            `json:"NULL,omitempty"`
	L    []Value          `json:"L,omitempty"`
	M    map[string]Value `json:"M,omitempty"`
}

// Item is a single row: an unordered bag of named attribute values.
type Item map[string]Value

// Clone returns a deep enough copy that later mutation of the source item's
// top-level map does not affect what was stored.
func (i Item) Clone() Item {
	c := make(Item, len(i))
	for k, v := range i {
		c[k] = v
	}
	return c
}

// String returns a new string-typed attribute value.
func String(s string) Value {
	return Value{S: &s}
}

// AsString returns the value's string payload and whether it had one. Only
// the S variant is recognized; N/B/etc. return false.
func (v Value) AsString() (string, bool) {
	if v.S == nil {
		return "", false
	}
	return *v.S, true
}

// Type reports the wire tag of whichever variant is populated, mirroring
// serde_dynamo's AttributeType in the reference implementation. Used only
// for error messages and logging.
func (v Value) Type() string {
	switch {
	case v.S != nil:
		return "S"
	case v.N != nil:
		return "N"
	case v.B != nil:
		return "B"
	case v.SS != nil:
		return "SS"
	case v.NS != nil:
		return "NS"
	case v.BS != nil:
		return "BS"
	case v.BOOL != nil:
		return "BOOL"
	case v.NULL != nil:
		return "NULL"
	case v.L != nil:
		return "L"
	case v.M != nil:
		return "M"
	default:
		return "EMPTY"
	}
}

// KeyType is the role an attribute plays in a table's key schema.
type KeyType string

const (
	KeyTypeHash  KeyType = "HASH"
	KeyTypeRange KeyType = "RANGE"
)

// ScalarType is a key attribute's declared data type.
type ScalarType string

const (
	ScalarTypeString ScalarType = "S"
	ScalarTypeNumber ScalarType = "N"
	ScalarTypeBinary ScalarType = "B"
)

// UnmarshalJSON rejects scalar types outside {S,N,B}, matching the
// reference implementation's strict AttributeType deserializer.
func (s *ScalarType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch ScalarType(raw) {
	case ScalarTypeString, ScalarTypeNumber, ScalarTypeBinary:
		*s = ScalarType(raw)
		return nil
	default:
		return fmt.Errorf("attrvalue: unknown scalar type %q", raw)
	}
}

// AttributeDefinition declares the type of one key attribute.
type AttributeDefinition struct {
	AttributeName string     `json:"AttributeName" yaml:"attributeName"`
	AttributeType ScalarType `json:"AttributeType" yaml:"attributeType"`
}

// KeySchemaElement names one attribute in a table's key schema.
type KeySchemaElement struct {
	AttributeName string  `json:"AttributeName" yaml:"attributeName"`
	KeyType       KeyType `json:"KeyType" yaml:"keyType"`
}
