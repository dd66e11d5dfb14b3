package cache

import (
	"context"
	"fmt"
	"time"

	"pathtree_service/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI defines the interface for DynamoDB operations
type DynamoDBAPI interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDBCache implements CacheProvider using DynamoDB
type DynamoDBCache struct {
	client   DynamoDBAPI
	cacheTTL time.Duration
}

// NewDynamoDBCache creates a new DynamoDB cache provider
func NewDynamoDBCache() (*DynamoDBCache, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, err
	}

	return &DynamoDBCache{
		client:   dynamodb.NewFromConfig(cfg),
		cacheTTL: 5 * time.Minute,
	}, nil
}

// NewDynamoDBCacheWithClient creates a new DynamoDB cache provider with a custom client
func NewDynamoDBCacheWithClient(client DynamoDBAPI) *DynamoDBCache {
	return &DynamoDBCache{
		client:   client,
		cacheTTL: 5 * time.Minute,
	}
}

// Initialize creates the DynamoDB table if it doesn't exist
func (c *DynamoDBCache) Initialize() error {
	ctx := context.TODO()

	// Check if table exists
	_, err := c.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err == nil {
		// Table exists
		return nil
	}

	// Create table
	_, err = c.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("key"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("key"),
				KeyType:       types.KeyTypeHash,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	return err
}

// GetTreeList retrieves the cached all-trees listing if available
func (c *DynamoDBCache) GetTreeList() ([]*models.TreeListing, bool) {
	var item listCacheItem
	if !c.getItem(treeListKey, &item) {
		return nil, false
	}
	return item.Data, true
}

// SetTreeList stores the all-trees listing in cache
func (c *DynamoDBCache) SetTreeList(listings []*models.TreeListing) {
	now := time.Now()
	c.putItem(listCacheItem{
		Key:       treeListKey,
		Data:      listings,
		Timestamp: now.Unix(),
		TTL:       now.Add(c.cacheTTL).Unix(),
	})
}

// GetNestedTree retrieves a tree's cached nested root if available
func (c *DynamoDBCache) GetNestedTree(treeID int64) (*models.NestedNode, bool) {
	var item nestedCacheItem
	if !c.getItem(nestedKey(treeID), &item) {
		return nil, false
	}
	return item.Data, true
}

// SetNestedTree stores a tree's nested root in cache
func (c *DynamoDBCache) SetNestedTree(treeID int64, root *models.NestedNode) {
	now := time.Now()
	c.putItem(nestedCacheItem{
		Key:       nestedKey(treeID),
		Data:      root,
		Timestamp: now.Unix(),
		TTL:       now.Add(c.cacheTTL).Unix(),
	})
}

// getItem fetches and unmarshals one cache item, handling expiry. Returns
// false when the item is absent, expired, or unreadable.
func (c *DynamoDBCache) getItem(key string, out expirable) bool {
	ctx := context.TODO()

	result, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return false
	}
	if result.Item == nil {
		return false
	}

	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return false
	}

	// Check if cache is still valid
	if time.Now().Unix() > out.expiresAt() {
		// Cache expired, delete it
		if _, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(tableName),
			Key: map[string]types.AttributeValue{
				"key": &types.AttributeValueMemberS{Value: key},
			},
		}); err != nil {
			fmt.Printf("Warning: Error deleting expired cache item: %v\n", err)
		}
		return false
	}

	return true
}

// putItem marshals and stores one cache item. Storage failures fall back
// to invalidating the whole cache so stale data is never served.
func (c *DynamoDBCache) putItem(item interface{}) {
	ctx := context.TODO()

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		c.invalidate()
		return
	}

	if _, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      av,
	}); err != nil {
		c.invalidate()
	}
}

// InvalidateCache removes all cached data
func (c *DynamoDBCache) InvalidateCache() {
	c.invalidate()
}

func (c *DynamoDBCache) invalidate() {
	ctx := context.Background()

	scan, err := c.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:            aws.String(tableName),
		ProjectionExpression: aws.String("#k"),
		ExpressionAttributeNames: map[string]string{
			"#k": "key",
		},
	})
	if err != nil {
		fmt.Printf("Warning: Error scanning cache table: %v\n", err)
		return
	}

	for _, item := range scan.Items {
		if _, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(tableName),
			Key:       map[string]types.AttributeValue{"key": item["key"]},
		}); err != nil {
			fmt.Printf("Warning: Error deleting cache item: %v\n", err)
		}
	}
}

// SetCacheTTL sets the cache time-to-live duration
func (c *DynamoDBCache) SetCacheTTL(ttl time.Duration) {
	c.cacheTTL = ttl
}

const tableName = "PathTreeCache"

type listCacheItem struct {
	Key       string                `dynamodbav:"key"`
	Data      []*models.TreeListing `dynamodbav:"data"`
	Timestamp int64                 `dynamodbav:"timestamp"`
	TTL       int64                 `dynamodbav:"ttl"`
}

func (i *listCacheItem) expiresAt() int64 { return i.TTL }

type nestedCacheItem struct {
	Key       string             `dynamodbav:"key"`
	Data      *models.NestedNode `dynamodbav:"data"`
	Timestamp int64              `dynamodbav:"timestamp"`
	TTL       int64              `dynamodbav:"ttl"`
}

func (i *nestedCacheItem) expiresAt() int64 { return i.TTL }

type expirable interface {
	expiresAt() int64
}
