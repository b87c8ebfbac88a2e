// Package dynamo implements storage.Store on a DynamoDB table keyed by a
// string hash key "id" with the value kept in the "value" attribute.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/vadimbarashkov/shortlink/internal/storage"
)

const (
	keyAttr            = "id"
	tableCreateTimeout = 2 * time.Minute
)

// API is the subset of the DynamoDB client used by Store.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

type entry struct {
	Key   string `dynamodbav:"id"`
	Value string `dynamodbav:"value"`
}

// NewClient builds a DynamoDB client for region. A non-empty endpoint points the
// client at a local DynamoDB with static dummy credentials.
func NewClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	const op = "storage.dynamo.NewClient"

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if endpoint != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load aws config: %w", op, err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return client, nil
}

type Store struct {
	api   API
	table string
}

func NewStore(api API, table string) *Store {
	return &Store{
		api:   api,
		table: table,
	}
}

// EnsureTable creates the table when it does not exist and waits until it is active.
func (s *Store) EnsureTable(ctx context.Context) error {
	const op = "storage.dynamo.Store.EnsureTable"

	_, err := s.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("%s: failed to describe table: %w", op, err)
	}

	_, err = s.api.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String(keyAttr),
				KeyType:       types.KeyTypeHash,
			},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String(keyAttr),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create table: %w", op, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.api)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	}, tableCreateTimeout); err != nil {
		return fmt.Errorf("%s: failed to wait for table: %w", op, err)
	}

	return nil
}

func (s *Store) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: key},
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.dynamo.Store.Get"

	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("%s: failed to get item: %w", op, err)
	}

	if out.Item == nil {
		return "", fmt.Errorf("%s: %w", op, storage.ErrKeyNotFound)
	}

	var e entry
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return "", fmt.Errorf("%s: failed to unmarshal item: %w", op, err)
	}

	return e.Value, nil
}

func (s *Store) Put(ctx context.Context, key, value string) error {
	const op = "storage.dynamo.Store.Put"

	item, err := attributevalue.MarshalMap(entry{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("%s: failed to marshal item: %w", op, err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to put item: %w", op, err)
	}

	return nil
}

func (s *Store) Create(ctx context.Context, key, value string) error {
	const op = "storage.dynamo.Store.Create"

	item, err := attributevalue.MarshalMap(entry{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("%s: failed to marshal item: %w", op, err)
	}

	cond := expression.AttributeNotExists(expression.Name(keyAttr))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("%s: failed to build condition expression: %w", op, err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return fmt.Errorf("%s: %w", op, storage.ErrKeyExists)
		}

		return fmt.Errorf("%s: failed to put item: %w", op, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "storage.dynamo.Store.Delete"

	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(key),
	})
	if err != nil {
		return fmt.Errorf("%s: failed to delete item: %w", op, err)
	}

	return nil
}

// List scans the table for keys beginning with prefix. Keys are returned sorted,
// since scan order follows hash placement.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	const op = "storage.dynamo.Store.List"

	filt := expression.Name(keyAttr).BeginsWith(prefix)
	proj := expression.NamesList(expression.Name(keyAttr))

	expr, err := expression.NewBuilder().WithFilter(filt).WithProjection(proj).Build()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build scan expression: %w", op, err)
	}

	p := dynamodb.NewScanPaginator(s.api, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          expr.Filter(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(true),
	})

	keys := make([]string, 0)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan table: %w", op, err)
		}

		var entries []entry
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &entries); err != nil {
			return nil, fmt.Errorf("%s: failed to unmarshal items: %w", op, err)
		}

		for _, e := range entries {
			keys = append(keys, e.Key)
		}
	}
	sort.Strings(keys)

	return keys, nil
}
