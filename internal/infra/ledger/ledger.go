// Where: internal/infra/ledger/ledger.go
// What: Deploy history records in DynamoDB.
// Why: Teams want to know who pushed which build to which channel.
package ledger

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poruru/itchdeploy/internal/infra/awsclient"
)

var errTableRequired = errors.New("ledger table is required")

// Record is one finished deploy.
type Record struct {
	RunID        string
	Account      string
	Project      string
	Channel      string
	Engine       string
	Uploader     string
	Bootstrapped bool
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Writer stores records.
type Writer interface {
	Put(ctx context.Context, record Record) error
}

type putItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Table writes records into a DynamoDB table keyed by run_id.
type Table struct {
	Name   string
	client putItemAPI
}

// NewTable builds a Table from AWS options.
func NewTable(ctx context.Context, name string, opts awsclient.Options) (*Table, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errTableRequired
	}
	cfg, err := awsclient.LoadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	endpoint := awsclient.EndpointOrNil(opts.Endpoint)
	client := dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
		if endpoint != nil {
			options.BaseEndpoint = endpoint
		}
	})
	return &Table{Name: name, client: client}, nil
}

// Put writes record as a single item.
func (t *Table) Put(ctx context.Context, record Record) error {
	if t == nil || strings.TrimSpace(t.Name) == "" {
		return errTableRequired
	}
	_, err := t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.Name),
		Item:      Item(record),
	})
	return err
}

// Item renders record as DynamoDB attributes. Times are RFC 3339 in UTC.
func Item(record Record) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"run_id":       &types.AttributeValueMemberS{Value: record.RunID},
		"account":      &types.AttributeValueMemberS{Value: record.Account},
		"project":      &types.AttributeValueMemberS{Value: record.Project},
		"channel":      &types.AttributeValueMemberS{Value: record.Channel},
		"engine":       &types.AttributeValueMemberS{Value: record.Engine},
		"uploader":     &types.AttributeValueMemberS{Value: record.Uploader},
		"bootstrapped": &types.AttributeValueMemberBOOL{Value: record.Bootstrapped},
		"started_at":   &types.AttributeValueMemberS{Value: record.StartedAt.UTC().Format(time.RFC3339)},
		"finished_at":  &types.AttributeValueMemberS{Value: record.FinishedAt.UTC().Format(time.RFC3339)},
		"duration_ms":  &types.AttributeValueMemberN{Value: strconv.FormatInt(record.FinishedAt.Sub(record.StartedAt).Milliseconds(), 10)},
	}
}
