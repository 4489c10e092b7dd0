package domain

import "time"

// ParticipantList is the recipient roster a campaign targets. Lists are
// owned by a tenant and snapshotted at campaign creation; editing a list
// never changes an existing campaign.
type ParticipantList struct {
	ID       string   `json:"id" dynamodbav:"ID"`
	TenantID string   `json:"tenant_id" dynamodbav:"TenantID"`
	Name     string   `json:"name" dynamodbav:"Name"`
	Emails   []string `json:"emails" dynamodbav:"Emails"`

	CreatedAt time.Time `json:"created_at" dynamodbav:"CreatedAt"`
}

// EmailRecord is one participant's entry within a campaign: the persisted
// stand-in for an outbound message. Created in bulk at campaign creation
// and immutable afterwards; the tracking pipeline looks it up but never
// alters it.
type EmailRecord struct {
	ID               string    `json:"id" dynamodbav:"ID"`
	TenantID         string    `json:"tenant_id" dynamodbav:"TenantID"`
	CampaignID       string    `json:"campaign_id" dynamodbav:"CampaignID"`
	ParticipantEmail string    `json:"participant_email" dynamodbav:"ParticipantEmail"`
	SentAt           time.Time `json:"sent_at" dynamodbav:"SentAt"`
	DeliveryStatus   string    `json:"delivery_status" dynamodbav:"DeliveryStatus"`
}
