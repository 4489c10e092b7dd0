// Package storage provides the DynamoDB-backed system of record for
// campaigns, participant lists, email records, and interaction events.
//
// It implements both campaign.Repository and interaction.Repository over
// a single table. The only mutation the tracking pipeline performs on a
// campaign document is UpdateItem with an ADD expression, which is the
// store's atomic increment-in-place primitive.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/ignite/phishdrill/internal/config"
	"github.com/ignite/phishdrill/internal/domain"
	"github.com/ignite/phishdrill/internal/service/campaign"
)

// batchWriteMax is DynamoDB's BatchWriteItem item limit.
const batchWriteMax = 25

// Store is a DynamoDB-backed document store.
type Store struct {
	db    *dynamodb.Client
	table string
}

// New creates a store from configuration, loading AWS credentials from
// the default chain (env, shared config, task role).
func New(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AWSProfile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Store{
		db:    dynamodb.NewFromConfig(awsCfg),
		table: cfg.TableName,
	}, nil
}

// campaignItem is the stored shape of a campaign document. The GSI keys
// let the scheduler query by status and due time across tenants.
type campaignItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	GSI1PK string `dynamodbav:"GSI1PK"`
	GSI1SK string `dynamodbav:"GSI1SK"`
	domain.Campaign
}

type listItem struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	domain.ParticipantList
}

type emailItem struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	domain.EmailRecord
}

func newCampaignItem(c *domain.Campaign) campaignItem {
	return campaignItem{
		PK:       tenantPK(c.TenantID),
		SK:       campaignSK(c.ID),
		GSI1PK:   statusGSIPK(string(c.Status)),
		GSI1SK:   statusGSISK(c.ScheduledAt),
		Campaign: *c,
	}
}

// CreateCampaign persists the campaign, its participant list, and the per
// recipient email records. Records are written first and the campaign
// document last inside a transaction, so a campaign is never observable
// without its records.
func (s *Store) CreateCampaign(ctx context.Context, c *domain.Campaign, list *domain.ParticipantList, records []domain.EmailRecord) error {
	for start := 0; start < len(records); start += batchWriteMax {
		end := start + batchWriteMax
		if end > len(records) {
			end = len(records)
		}

		writes := make([]types.WriteRequest, 0, end-start)
		for _, rec := range records[start:end] {
			av, err := attributevalue.MarshalMap(emailItem{
				PK:          campaignPK(rec.TenantID, rec.CampaignID),
				SK:          emailSK(rec.ID),
				EmailRecord: rec,
			})
			if err != nil {
				return fmt.Errorf("marshaling email record: %w", err)
			}
			writes = append(writes, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
		}

		_, err := s.db.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.table: writes},
		})
		if err != nil {
			return fmt.Errorf("writing email records: %w", err)
		}
	}

	campaignAV, err := attributevalue.MarshalMap(newCampaignItem(c))
	if err != nil {
		return fmt.Errorf("marshaling campaign: %w", err)
	}
	listAV, err := attributevalue.MarshalMap(listItem{
		PK:              tenantPK(list.TenantID),
		SK:              listSK(list.ID),
		ParticipantList: *list,
	})
	if err != nil {
		return fmt.Errorf("marshaling participant list: %w", err)
	}

	_, err = s.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(s.table),
				Item:                campaignAV,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			{Put: &types.Put{
				TableName: aws.String(s.table),
				Item:      listAV,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("writing campaign: %w", err)
	}
	return nil
}

// GetCampaign returns a single campaign document.
func (s *Store) GetCampaign(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: tenantPK(tenantID)},
			"SK": &types.AttributeValueMemberS{Value: campaignSK(id)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting campaign: %w", err)
	}
	if out.Item == nil {
		return nil, campaign.ErrNotFound
	}

	var item campaignItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling campaign: %w", err)
	}
	return &item.Campaign, nil
}

// ListCampaigns returns all campaigns for a tenant, newest first.
func (s *Store) ListCampaigns(ctx context.Context, tenantID string) ([]domain.Campaign, error) {
	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: tenantPK(tenantID)},
			":sk": &types.AttributeValueMemberS{Value: skCampaignPrefix},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("querying campaigns: %w", err)
	}

	campaigns := make([]domain.Campaign, 0, len(out.Items))
	for _, raw := range out.Items {
		var item campaignItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshaling campaign: %w", err)
		}
		campaigns = append(campaigns, item.Campaign)
	}
	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
	})
	return campaigns, nil
}

// ListEmailRecords returns the recipient records of one campaign.
func (s *Store) ListEmailRecords(ctx context.Context, tenantID, campaignID string) ([]domain.EmailRecord, error) {
	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: campaignPK(tenantID, campaignID)},
			":sk": &types.AttributeValueMemberS{Value: skEmailPrefix},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("querying email records: %w", err)
	}

	records := make([]domain.EmailRecord, 0, len(out.Items))
	for _, raw := range out.Items {
		var item emailItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshaling email record: %w", err)
		}
		records = append(records, item.EmailRecord)
	}
	return records, nil
}

// UpdateCampaignStatus transitions a campaign's status, keeps the status
// index keys in step, and stamps StartedAt/EndedAt where the transition
// implies them.
func (s *Store) UpdateCampaignStatus(ctx context.Context, tenantID, id string, status domain.CampaignStatus) error {
	now := time.Now().UTC()

	expr := "SET #st = :status, GSI1PK = :gsipk"
	values := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: string(status)},
		":gsipk":  &types.AttributeValueMemberS{Value: statusGSIPK(string(status))},
	}
	switch status {
	case domain.CampaignRunning:
		expr += ", StartedAt = :now"
		values[":now"] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)}
	case domain.CampaignCompleted:
		expr += ", EndedAt = :now"
		values[":now"] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)}
	}

	_, err := s.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: tenantPK(tenantID)},
			"SK": &types.AttributeValueMemberS{Value: campaignSK(id)},
		},
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  map[string]string{"#st": "Status"},
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return campaign.ErrNotFound
		}
		return fmt.Errorf("updating campaign status: %w", err)
	}
	return nil
}

// ListDueCampaigns returns campaigns in the given status scheduled at or
// before the cutoff, across all tenants.
func (s *Store) ListDueCampaigns(ctx context.Context, status domain.CampaignStatus, before time.Time) ([]domain.Campaign, error) {
	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(statusIndexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK <= :cutoff"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: statusGSIPK(string(status))},
			":cutoff": &types.AttributeValueMemberS{Value: statusGSISK(before)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("querying due campaigns: %w", err)
	}

	campaigns := make([]domain.Campaign, 0, len(out.Items))
	for _, raw := range out.Items {
		var item campaignItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshaling campaign: %w", err)
		}
		campaigns = append(campaigns, item.Campaign)
	}
	return campaigns, nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
