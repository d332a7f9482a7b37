package dispatcher

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"ddblocal/internal/attrvalue"
	"ddblocal/internal/dynamoapi"
	"ddblocal/pkg/observability"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zap.NewNop()
	tracer := noop.NewTracerProvider().Tracer("test")
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	return New(logger, tracer, metrics)
}

func doRequest(t *testing.T, srv *Server, operation string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set("x-amz-target", "DynamoDB_20120810."+operation)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response: %v, body=%s", err, rec.Body.String())
		}
	}
	return rec, decoded
}

func TestEndToEndCreatePutGetQuery(t *testing.T) {
	srv := newTestServer(t)

	// 1. create a table with a partition and sort key.
	rec, _ := doRequest(t, srv, "CreateTable", dynamoapi.CreateTableInput{
		TableName: "Thread",
		AttributeDefinitions: []attrvalue.AttributeDefinition{
			{AttributeName: "ForumName", AttributeType: attrvalue.ScalarTypeString},
			{AttributeName: "Subject", AttributeType: attrvalue.ScalarTypeString},
		},
		KeySchema: []attrvalue.KeySchemaElement{
			{AttributeName: "ForumName", KeyType: attrvalue.KeyTypeHash},
			{AttributeName: "Subject", KeyType: attrvalue.KeyTypeRange},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("CreateTable status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// 2. put an item.
	rec, _ = doRequest(t, srv, "PutItem", map[string]interface{}{
		"TableName": "Thread",
		"Item": map[string]interface{}{
			"ForumName": map[string]string{"S": "Amazon DynamoDB"},
			"Subject":   map[string]string{"S": "How do I update multiple items?"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("PutItem status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// 3. get it back.
	rec, body := doRequest(t, srv, "GetItem", map[string]interface{}{
		"TableName": "Thread",
		"Key": map[string]interface{}{
			"ForumName": map[string]string{"S": "Amazon DynamoDB"},
			"Subject":   map[string]string{"S": "How do I update multiple items?"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("GetItem status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, ok := body["Item"]; !ok {
		t.Fatalf("GetItem response missing Item: %v", body)
	}

	// 4. query by partition key.
	rec, body = doRequest(t, srv, "Query", map[string]interface{}{
		"TableName":              "Thread",
		"KeyConditionExpression": "ForumName = :name",
		"ExpressionAttributeValues": map[string]interface{}{
			":name": map[string]string{"S": "Amazon DynamoDB"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Query status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if count, _ := body["Count"].(float64); count != 1 {
		t.Fatalf("Query Count = %v, want 1", body["Count"])
	}
}

func TestDescribeMissingTableReturnsResourceNotFound(t *testing.T) {
	srv := newTestServer(t)
	rec, body := doRequest(t, srv, "DescribeTable", dynamoapi.DescribeTableInput{TableName: "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["__type"] != "com.amazonaws.dynamodb.v20120810#ResourceNotFoundException" {
		t.Fatalf("__type = %v, want ResourceNotFoundException", body["__type"])
	}
}

func TestUnknownOperationIsInvalidOperation(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	req.Header.Set("x-amz-target", "DynamoDB_20120810.UpdateItem")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v, body=%s", err, rec.Body.String())
	}
	if body["__type"] != "com.amazon.coral.service#UnknownOperationException" {
		t.Fatalf("__type = %v, want UnknownOperationException", body["__type"])
	}
}

func TestMissingTargetHeaderIsInvalidOperation(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
