// Package dynamoapi defines the JSON request/response shapes for the
// subset of the DynamoDB_20120810 wire protocol this emulator implements.
// Field names and casing follow the real service (and the reference
// implementation's types.rs) exactly, since clients built against the AWS
// SDK serialize to this shape regardless of what actually answers them.
package dynamoapi

import "ddblocal/internal/attrvalue"

// ProvisionedThroughputDescription is always reported back with the fixed
// defaults below; this emulator does not enforce or track capacity.
type ProvisionedThroughputDescription struct {
	NumberOfDecreasesToday int64 `json:"NumberOfDecreasesToday"`
	ReadCapacityUnits      int64 `json:"ReadCapacityUnits"`
	WriteCapacityUnits     int64 `json:"WriteCapacityUnits"`
}

func defaultThroughput() ProvisionedThroughputDescription {
	return ProvisionedThroughputDescription{NumberOfDecreasesToday: 0, ReadCapacityUnits: 10, WriteCapacityUnits: 10}
}

// TableDescription is the shape returned by CreateTable and DescribeTable.
type TableDescription struct {
	TableName             string                           `json:"TableName"`
	AttributeDefinitions  []attrvalue.AttributeDefinition  `json:"AttributeDefinitions"`
	KeySchema             []attrvalue.KeySchemaElement     `json:"KeySchema"`
	TableStatus           string                           `json:"TableStatus"`
	TableSizeBytes        int64                            `json:"TableSizeBytes"`
	ItemCount             int64                            `json:"ItemCount"`
	TableArn              string                           `json:"TableArn"`
	TableId               string                           `json:"TableId"`
	CreationDateTime      float64                          `json:"CreationDateTime"`
	ProvisionedThroughput ProvisionedThroughputDescription `json:"ProvisionedThroughput"`
}

// --- CreateTable ---

type CreateTableInput struct {
	TableName             string                           `json:"TableName" validate:"required"`
	AttributeDefinitions  []attrvalue.AttributeDefinition  `json:"AttributeDefinitions" validate:"required,min=1,dive"`
	KeySchema             []attrvalue.KeySchemaElement     `json:"KeySchema" validate:"required,min=1,dive"`
}

type CreateTableOutput struct {
	TableDescription TableDescription `json:"TableDescription"`
}

// --- DescribeTable ---

type DescribeTableInput struct {
	TableName string `json:"TableName" validate:"required"`
}

type DescribeTableOutput struct {
	Table TableDescription `json:"Table"`
}

// --- DeleteTable ---

type DeleteTableInput struct {
	TableName string `json:"TableName" validate:"required"`
}

type DeleteTableOutput struct {
	TableDescription *TableDescription `json:"TableDescription,omitempty"`
}

// --- ListTables ---

type ListTablesInput struct {
	ExclusiveStartTableName string `json:"ExclusiveStartTableName,omitempty"`
	Limit                   int    `json:"Limit,omitempty"`
}

type ListTablesOutput struct {
	TableNames []string `json:"TableNames"`
}

// --- PutItem ---

type PutItemInput struct {
	TableName string          `json:"TableName" validate:"required"`
	Item      attrvalue.Item  `json:"Item" validate:"required"`
}

type PutItemOutput struct {
	Attributes map[string]attrvalue.Value `json:"Attributes,omitempty"`
}

// --- GetItem ---

type GetItemInput struct {
	TableName string         `json:"TableName" validate:"required"`
	Key       attrvalue.Item `json:"Key" validate:"required"`
}

type GetItemOutput struct {
	Item attrvalue.Item `json:"Item,omitempty"`
}

// --- Query ---

type QueryInput struct {
	TableName                 string                      `json:"TableName" validate:"required"`
	KeyConditionExpression    string                      `json:"KeyConditionExpression" validate:"required"`
	ExpressionAttributeNames  map[string]string           `json:"ExpressionAttributeNames,omitempty"`
	ExpressionAttributeValues map[string]attrvalue.Value  `json:"ExpressionAttributeValues,omitempty"`
}

type QueryOutput struct {
	Items        []attrvalue.Item `json:"Items"`
	Count        int              `json:"Count"`
	ScannedCount int              `json:"ScannedCount"`
}

// --- Scan ---

type ScanInput struct {
	TableName string `json:"TableName" validate:"required"`
}

type ScanOutput struct {
	Items        []attrvalue.Item `json:"Items"`
	Count        int              `json:"Count"`
	ScannedCount int              `json:"ScannedCount"`
}

// --- BatchWriteItem ---

type BatchPutRequestItem struct {
	Item attrvalue.Item `json:"Item"`
}

type BatchWriteRequest struct {
	PutRequest *BatchPutRequestItem `json:"PutRequest,omitempty"`
}

type BatchWriteItemInput struct {
	RequestItems map[string][]BatchWriteRequest `json:"RequestItems" validate:"required"`
}

type BatchWriteItemOutput struct {
	UnprocessedItems map[string][]BatchWriteRequest `json:"UnprocessedItems,omitempty"`
}
