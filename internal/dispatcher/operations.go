package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"

	"ddblocal/internal/dynamoapi"
	"ddblocal/internal/table"
	"ddblocal/internal/tablemanager"
	apperrors "ddblocal/pkg/errors"
)

type operationFunc func(s *Server, ctx context.Context, body []byte) (interface{}, error)

// operations is the closed set of DynamoDB_20120810 operations this
// emulator answers. Anything else is rejected with KindInvalidOperation.
var operations = map[string]operationFunc{
	"CreateTable":    handleCreateTable,
	"DescribeTable":  handleDescribeTable,
	"DeleteTable":    handleDeleteTable,
	"ListTables":     handleListTables,
	"PutItem":        handlePutItem,
	"GetItem":        handleGetItem,
	"Query":          handleQuery,
	"Scan":           handleScan,
	"BatchWriteItem": handleBatchWriteItem,
}

func decode[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, apperrors.Wrap(apperrors.KindSerializationError, err, "decoding request body")
	}
	return v, nil
}

func (s *Server) validateInput(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		return apperrors.Wrap(apperrors.KindSerializationError, err, "validating request")
	}
	return nil
}

func handleCreateTable(s *Server, _ context.Context, body []byte) (interface{}, error) {
	input, err := decode[dynamoapi.CreateTableInput](body)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.manager.NewTable(tablemanager.DefaultAccountID, tablemanager.DefaultRegion, input.TableName, input.AttributeDefinitions, input.KeySchema)
	if err != nil {
		return nil, err
	}
	return dynamoapi.CreateTableOutput{TableDescription: describeTable(t)}, nil
}

func handleDescribeTable(s *Server, _ context.Context, body []byte) (interface{}, error) {
	input, err := decode[dynamoapi.DescribeTableInput](body)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.manager.GetTable(input.TableName)
	if !ok {
		return nil, apperrors.New(apperrors.KindResourceNotFound,
			fmt.Sprintf("Requested resource not found: Table: %s not found", input.TableName))
	}
	return dynamoapi.DescribeTableOutput{Table: describeTable(t)}, nil
}

func handleDeleteTable(s *Server, _ context.Context, body []byte) (interface{}, error) {
	input, err := decode[dynamoapi.DeleteTableInput](body)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out dynamoapi.DeleteTableOutput
	if t, ok := s.manager.GetTable(input.TableName); ok {
		desc := describeTable(t)
		out.TableDescription = &desc
	}
	s.manager.DeleteTable(input.TableName)
	return out, nil
}

func handleListTables(s *Server, _ context.Context, _ []byte) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return dynamoapi.ListTablesOutput{TableNames: s.manager.TableNames()}, nil
}

func handlePutItem(s *Server, _ context.Context, body []byte) (interface{}, error) {
	input, err := decode[dynamoapi.PutItemInput](body)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.manager.GetTable(input.TableName)
	if !ok {
		return nil, apperrors.New(apperrors.KindResourceNotFound,
			fmt.Sprintf("Requested resource not found: Table: %s not found", input.TableName))
	}
	if err := t.Insert(input.Item); err != nil {
		return nil, err
	}
	return dynamoapi.PutItemOutput{}, nil
}

func handleGetItem(s *Server, _ context.Context, body []byte) (interface{}, error) {
	input, err := decode[dynamoapi.GetItemInput](body)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.manager.GetTable(input.TableName)
	if !ok {
		return nil, apperrors.New(apperrors.KindResourceNotFound,
			fmt.Sprintf("Requested resource not found: Table: %s not found", input.TableName))
	}
	item, _ := t.GetItem(input.Key)
	return dynamoapi.GetItemOutput{Item: item}, nil
}

func handleQuery(s *Server, _ context.Context, body []byte) (interface{}, error) {
	input, err := decode[dynamoapi.QueryInput](body)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.manager.GetTable(input.TableName)
	if !ok {
		return nil, apperrors.New(apperrors.KindResourceNotFound,
			fmt.Sprintf("Requested resource not found: Table: %s not found", input.TableName))
	}

	items, err := t.Query(input.KeyConditionExpression, input.ExpressionAttributeNames, input.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	return dynamoapi.QueryOutput{Items: items, Count: len(items), ScannedCount: len(items)}, nil
}

func handleScan(s *Server, _ context.Context, body []byte) (interface{}, error) {
	input, err := decode[dynamoapi.ScanInput](body)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.manager.GetTable(input.TableName)
	if !ok {
		return nil, apperrors.New(apperrors.KindResourceNotFound,
			fmt.Sprintf("Requested resource not found: Table: %s not found", input.TableName))
	}

	items := t.Scan()
	return dynamoapi.ScanOutput{Items: items, Count: len(items), ScannedCount: len(items)}, nil
}

func handleBatchWriteItem(s *Server, _ context.Context, body []byte) (interface{}, error) {
	input, err := decode[dynamoapi.BatchWriteItemInput](body)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	requests := make(map[string][]tablemanager.BatchPutRequest, len(input.RequestItems))
	for tableName, writes := range input.RequestItems {
		for _, w := range writes {
			if w.PutRequest == nil {
				continue // DeleteRequest is not modeled; see Non-goals.
			}
			requests[tableName] = append(requests[tableName], tablemanager.BatchPutRequest{Item: w.PutRequest.Item})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unprocessed := s.manager.BatchWriteItem(requests)
	if len(unprocessed) == 0 {
		return dynamoapi.BatchWriteItemOutput{}, nil
	}

	out := make(map[string][]dynamoapi.BatchWriteRequest, len(unprocessed))
	for tableName, reqs := range unprocessed {
		for _, r := range reqs {
			item := r.Item
			out[tableName] = append(out[tableName], dynamoapi.BatchWriteRequest{
				PutRequest: &dynamoapi.BatchPutRequestItem{Item: item},
			})
		}
	}
	return dynamoapi.BatchWriteItemOutput{UnprocessedItems: out}, nil
}

// describeTable projects a table's internal state into the wire shape
// DynamoDB clients expect from CreateTable/DescribeTable.
func describeTable(t *table.Table) dynamoapi.TableDescription {
	return dynamoapi.TableDescription{
		TableName:             t.Name,
		AttributeDefinitions:  t.AttributeDefinitions,
		KeySchema:             t.KeySchema,
		TableStatus:           "ACTIVE",
		TableSizeBytes:        0,
		ItemCount:             int64(t.ItemCount()),
		TableArn:              fmt.Sprintf("arn:aws:dynamodb:%s:%s:table/%s", t.Region, t.AccountID, t.Name),
		TableId:               t.TableID,
		CreationDateTime:      float64(t.CreatedAt.Unix()),
		ProvisionedThroughput: dynamoapi.ProvisionedThroughputDescription{NumberOfDecreasesToday: 0, ReadCapacityUnits: 10, WriteCapacityUnits: 10},
	}
}
