package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/ignite/phishdrill/internal/domain"
	"github.com/ignite/phishdrill/internal/service/interaction"
)

// interaction.Repository implementation. These are the only store calls
// on the unauthenticated request path, so they stay deliberately small:
// one GetItem, one conditional PutItem, one ADD UpdateItem.

type interactionItem struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	domain.Interaction
}

// GetEmailRecord resolves a recipient record by its full key.
func (s *Store) GetEmailRecord(ctx context.Context, tenantID, campaignID, emailRecordID string) (*domain.EmailRecord, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: campaignPK(tenantID, campaignID)},
			"SK": &types.AttributeValueMemberS{Value: emailSK(emailRecordID)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting email record: %w", err)
	}
	if out.Item == nil {
		return nil, interaction.ErrNotFound
	}

	var item emailItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling email record: %w", err)
	}
	return &item.EmailRecord, nil
}

// AppendInteraction persists one interaction event. The timestamp is
// stamped here, not taken from the caller, and the attribute_not_exists
// condition keeps the log strictly append-only.
func (s *Store) AppendInteraction(ctx context.Context, evt *domain.Interaction) error {
	stamped := *evt
	stamped.OccurredAt = time.Now().UTC()

	av, err := attributevalue.MarshalMap(interactionItem{
		PK:          interactionPK(stamped.TenantID, stamped.CampaignID, stamped.EmailRecordID),
		SK:          interactionSK(stamped.OccurredAt, stamped.ID),
		Interaction: stamped,
	})
	if err != nil {
		return fmt.Errorf("marshaling interaction: %w", err)
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		return fmt.Errorf("appending interaction: %w", err)
	}
	return nil
}

// IncrementCounter adds exactly 1 to a campaign counter with a single
// ADD expression. No read-modify-write: concurrent increments commute
// inside DynamoDB, so the final value is correct under any interleaving.
func (s *Store) IncrementCounter(ctx context.Context, tenantID, campaignID string, counter domain.CounterField) error {
	_, err := s.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: tenantPK(tenantID)},
			"SK": &types.AttributeValueMemberS{Value: campaignSK(campaignID)},
		},
		UpdateExpression:         aws.String("ADD #c :one"),
		ExpressionAttributeNames: map[string]string{"#c": string(counter)},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return interaction.ErrNotFound
		}
		return fmt.Errorf("incrementing %s: %w", counter, err)
	}
	return nil
}
