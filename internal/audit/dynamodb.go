package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"agency-backend/internal/models"
)

const DefaultAuditTable = "estimate_audit"

// sortKeyLayout keeps a fixed-width fraction so sort keys compare in time order.
// time.RFC3339Nano trims trailing zeros and would put "12:00:00Z" after "12:00:00.5Z".
const sortKeyLayout = "2006-01-02T15:04:05.000000000Z07:00"

// dynamoEvent is the table item. Table keys:
//   - PK: estimate_id (string)
//   - SK: sk (string) = fixed-width UTC timestamp + "#" + event id
type dynamoEvent struct {
	EstimateID string `dynamodbav:"estimate_id"`
	SK         string `dynamodbav:"sk"`
	ID         string `dynamodbav:"id"`
	Action     string `dynamodbav:"action"`
	From       string `dynamodbav:"from,omitempty"`
	To         string `dynamodbav:"to"`
	Actor      string `dynamodbav:"actor,omitempty"`
	At         string `dynamodbav:"at"`
}

type DynamoSink struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ Sink = (*DynamoSink)(nil)

// NewDynamoClient builds a client for region. A non-empty endpoint points the client at
// DynamoDB Local, which needs static credentials but never checks them.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if endpoint != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func NewDynamoSink(ddb *dynamodb.Client, tableName string) *DynamoSink {
	if tableName == "" {
		tableName = DefaultAuditTable
	}
	return &DynamoSink{ddb: ddb, tableName: tableName}
}

func (d *DynamoSink) Record(ctx context.Context, e Event) error {
	item, err := attributevalue.MarshalMap(toDynamo(e))
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	_, err = d.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put audit event: %w", err)
	}
	return nil
}

func (d *DynamoSink) History(ctx context.Context, estimateID uuid.UUID, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	out, err := d.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(d.tableName),
		KeyConditionExpression: aws.String("#estimate_id = :estimate_id"),
		ExpressionAttributeNames: map[string]string{
			"#estimate_id": "estimate_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":estimate_id": &types.AttributeValueMemberS{Value: estimateID.String()},
		},
		ScanIndexForward: aws.Bool(true),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}

	var items []dynamoEvent
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit events: %w", err)
	}

	events := make([]Event, 0, len(items))
	for _, it := range items {
		events = append(events, fromDynamo(it))
	}
	return events, nil
}

func toDynamo(e Event) dynamoEvent {
	at := e.At.UTC().Format(sortKeyLayout)
	return dynamoEvent{
		EstimateID: e.EstimateID.String(),
		SK:         at + "#" + e.ID.String(),
		ID:         e.ID.String(),
		Action:     e.Action,
		From:       string(e.From),
		To:         string(e.To),
		Actor:      e.Actor,
		At:         at,
	}
}

func fromDynamo(it dynamoEvent) Event {
	id, _ := uuid.Parse(it.ID)
	estimateID, _ := uuid.Parse(it.EstimateID)
	at, _ := time.Parse(time.RFC3339Nano, it.At)
	if at.IsZero() {
		// Older items may only carry the sort key.
		at, _ = time.Parse(time.RFC3339Nano, strings.SplitN(it.SK, "#", 2)[0])
	}
	return Event{
		ID:         id,
		EstimateID: estimateID,
		Action:     it.Action,
		From:       statusOf(it.From),
		To:         statusOf(it.To),
		Actor:      it.Actor,
		At:         at,
	}
}

func statusOf(raw string) models.Status {
	return models.Status(raw)
}
