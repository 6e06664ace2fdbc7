/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/mapstore/cluster"
	"github.com/suparena/mapstore/codec"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/predicate"
	"go.uber.org/zap"
)

// Attribute names of a stored entry.
const (
	AttrPK         = "PK"
	AttrSK         = "SK"
	AttrEntityType = "EntityType"
	AttrPointer    = "Ptr"
	AttrValue      = "Value"
)

// maxBatchWrite is the BatchWriteItem request limit.
const maxBatchWrite = 25

var _ cluster.Instance = (*Instance)(nil)

// Instance stores every map of the instance in one table. An entry lives at
// PK "MAP#<instance>#<map>" and SK "<encoded key>".
type Instance struct {
	name      string
	client    Client
	tableName string
	pageSize  int32
	retries   int
	backoff   time.Duration
	logger    *zap.Logger

	mu     sync.RWMutex
	active bool
}

// Option configures an Instance.
type Option func(*Instance)

// WithPageSize sets the Limit of each Query page. Zero lets DynamoDB decide.
func WithPageSize(size int32) Option {
	return func(i *Instance) { i.pageSize = size }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Instance) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithBatchRetries sets how often unprocessed batch deletes are resent.
func WithBatchRetries(retries int, backoff time.Duration) Option {
	return func(i *Instance) {
		i.retries = retries
		i.backoff = backoff
	}
}

// New creates an instance over an existing client and table.
func New(client Client, tableName, name string, opts ...Option) *Instance {
	inst := &Instance{
		name:      name,
		client:    client,
		tableName: tableName,
		retries:   5,
		backoff:   100 * time.Millisecond,
		logger:    zap.NewNop(),
		active:    true,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// Open creates a client from opts and an instance over tableName.
func Open(ctx context.Context, opts ClientOptions, tableName, name string, instanceOpts ...Option) (*Instance, error) {
	inst := New(nil, tableName, name, instanceOpts...)

	client, err := NewClient(ctx, opts, inst.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	inst.client = client
	return inst, nil
}

func (i *Instance) Name() string { return i.name }

func (i *Instance) Map(_ context.Context, name string) (cluster.Map, error) {
	if err := i.check(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.NewValidationError("keyspace", "must not be empty")
	}
	return &Map{name: name, pk: fmt.Sprintf("MAP#%s#%s", i.name, name), owner: i}, nil
}

// Shutdown deactivates the instance. Stored data is left in the table.
func (i *Instance) Shutdown(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.active = false
	i.logger.Debug("DynamoDB instance shut down", zap.String("instance", i.name))
	return nil
}

func (i *Instance) check() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if !i.active {
		return cluster.ErrNotActive
	}
	return nil
}

var _ cluster.Map = (*Map)(nil)

// Map is one partition of the table.
type Map struct {
	name  string
	pk    string
	owner *Instance
}

func (m *Map) Name() string { return m.name }

func (m *Map) key(key any) (map[string]types.AttributeValue, string, error) {
	if err := m.owner.check(); err != nil {
		return nil, "", err
	}
	sk, err := codec.EncodeKey(key)
	if err != nil {
		return nil, "", err
	}
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: m.pk},
		AttrSK: &types.AttributeValueMemberS{Value: sk},
	}, sk, nil
}

func (m *Map) Put(ctx context.Context, key, value any) (any, error) {
	keyMap, sk, err := m.key(key)
	if err != nil {
		return nil, err
	}

	item, err := encodeItem(keyMap, value)
	if err != nil {
		return nil, err
	}

	out, err := m.owner.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:    &m.owner.tableName,
		Item:         item,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, wrap("PutItem", err)
	}

	m.owner.logger.Debug("put", zap.String("map", m.name), zap.String("key", sk))
	return decodeValue(out.Attributes)
}

func (m *Map) Get(ctx context.Context, key any) (any, error) {
	keyMap, _, err := m.key(key)
	if err != nil {
		return nil, err
	}

	out, err := m.owner.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &m.owner.tableName,
		Key:            keyMap,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, wrap("GetItem", err)
	}
	return decodeValue(out.Item)
}

func (m *Map) Remove(ctx context.Context, key any) (any, error) {
	keyMap, _, err := m.key(key)
	if err != nil {
		return nil, err
	}

	out, err := m.owner.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:    &m.owner.tableName,
		Key:          keyMap,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, wrap("DeleteItem", err)
	}
	return decodeValue(out.Attributes)
}

func (m *Map) ContainsKey(ctx context.Context, key any) (bool, error) {
	keyMap, _, err := m.key(key)
	if err != nil {
		return false, err
	}

	out, err := m.owner.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:            &m.owner.tableName,
		Key:                  keyMap,
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String(AttrPK),
	})
	if err != nil {
		return false, wrap("GetItem", err)
	}
	return len(out.Item) > 0, nil
}

// Clear deletes every item of the map in batches of 25.
func (m *Map) Clear(ctx context.Context) error {
	items, err := m.query(ctx, aws.String(AttrPK+", "+AttrSK))
	if err != nil {
		return err
	}

	for start := 0; start < len(items); start += maxBatchWrite {
		end := min(start+maxBatchWrite, len(items))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, item := range items[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: map[string]types.AttributeValue{
					AttrPK: item[AttrPK],
					AttrSK: item[AttrSK],
				}},
			})
		}
		if err := m.batchWrite(ctx, requests); err != nil {
			return err
		}
	}

	m.owner.logger.Debug("cleared", zap.String("map", m.name), zap.Int("items", len(items)))
	return nil
}

func (m *Map) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{m.owner.tableName: requests}

	for attempt := 0; ; attempt++ {
		out, err := m.owner.client.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return wrap("BatchWriteItem", err)
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		if attempt >= m.owner.retries {
			return errors.NewTransientError("BatchWriteItem",
				fmt.Errorf("%d requests unprocessed after %d retries", len(out.UnprocessedItems[m.owner.tableName]), attempt))
		}

		pending = out.UnprocessedItems
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * m.owner.backoff):
		}
	}
}

func (m *Map) Size(ctx context.Context) (int, error) {
	if err := m.owner.check(); err != nil {
		return 0, err
	}

	paginator := sdk.NewQueryPaginator(m.owner.client, m.queryInput(nil, types.SelectCount))
	total := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, wrap("Query", err)
		}
		total += int(out.Count)
	}
	return total, nil
}

// Entries returns the entries in sort key order.
func (m *Map) Entries(ctx context.Context) ([]predicate.Entry, error) {
	items, err := m.query(ctx, nil)
	if err != nil {
		return nil, err
	}

	entries := make([]predicate.Entry, 0, len(items))
	for _, item := range items {
		var sk string
		if err := attributevalue.Unmarshal(item[AttrSK], &sk); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", AttrSK, err)
		}
		key, err := codec.DecodeKey(sk)
		if err != nil {
			return nil, err
		}
		value, err := decodeValue(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, predicate.Entry{Key: key, Value: value})
	}
	return entries, nil
}

func (m *Map) Values(ctx context.Context, p predicate.Predicate) ([]any, error) {
	entries, err := m.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return predicate.Values(entries, p), nil
}

func (m *Map) KeySet(ctx context.Context, p predicate.Predicate) ([]any, error) {
	entries, err := m.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return predicate.Keys(entries, p), nil
}

func (m *Map) queryInput(projection *string, sel types.Select) *sdk.QueryInput {
	input := &sdk.QueryInput{
		TableName:              &m.owner.tableName,
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: m.pk},
		},
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: projection,
		Select:               sel,
	}
	if m.owner.pageSize > 0 {
		input.Limit = aws.Int32(m.owner.pageSize)
	}
	return input
}

func (m *Map) query(ctx context.Context, projection *string) ([]map[string]types.AttributeValue, error) {
	if err := m.owner.check(); err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	paginator := sdk.NewQueryPaginator(m.owner.client, m.queryInput(projection, ""))
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrap("Query", err)
		}
		items = append(items, out.Items...)
	}
	return items, nil
}

// encodeItem stores the value as a document, with the registered type name
// so it can be decoded back into its Go type.
func encodeItem(keyMap map[string]types.AttributeValue, value any) (map[string]types.AttributeValue, error) {
	doc, err := codec.Document(value)
	if err != nil {
		return nil, err
	}
	av, err := attributevalue.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}

	item := make(map[string]types.AttributeValue, len(keyMap)+3)
	for k, v := range keyMap {
		item[k] = v
	}
	item[AttrValue] = av

	name, pointer := codec.TypeOf(value)
	if name != "" {
		item[AttrEntityType] = &types.AttributeValueMemberS{Value: name}
	}
	if pointer {
		item[AttrPointer] = &types.AttributeValueMemberBOOL{Value: true}
	}
	return item, nil
}

func decodeValue(item map[string]types.AttributeValue) (any, error) {
	raw, ok := item[AttrValue]
	if !ok {
		return nil, nil
	}

	var (
		entityType string
		pointer    bool
	)
	if attr, ok := item[AttrEntityType]; ok {
		if err := attributevalue.Unmarshal(attr, &entityType); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", AttrEntityType, err)
		}
	}
	if attr, ok := item[AttrPointer]; ok {
		if err := attributevalue.Unmarshal(attr, &pointer); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", AttrPointer, err)
		}
	}

	return codec.Materialize(entityType, pointer, func(target any) error {
		var doc any
		if err := attributevalue.Unmarshal(raw, &doc); err != nil {
			return err
		}
		return codec.FromDocument(doc, target)
	})
}

func wrap(operation string, err error) error {
	if isRetryableError(err) {
		return errors.NewTransientError(operation, err)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}
