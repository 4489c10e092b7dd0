package domain

import "time"

// InteractionType enumerates participant actions the pipeline records.
// The values are wire/stored values; do not rename them.
type InteractionType string

const (
	InteractionClick  InteractionType = "link click"
	InteractionSubmit InteractionType = "submitted data"
)

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	return t == InteractionClick || t == InteractionSubmit
}

// Counter returns the campaign counter this interaction type feeds.
func (t InteractionType) Counter() CounterField {
	if t == InteractionSubmit {
		return CounterSubmitted
	}
	return CounterClicked
}

// Interaction is an append-only record of a single participant action.
// Write-once: no updates, no deletes. OccurredAt is stamped by the store
// layer, never taken from the client. Interactions intentionally carry no
// request payload beyond the identity triple: whatever a participant typed
// into a simulation form is never read or persisted.
type Interaction struct {
	ID            string          `json:"id" dynamodbav:"ID"`
	TenantID      string          `json:"tenant_id" dynamodbav:"TenantID"`
	CampaignID    string          `json:"campaign_id" dynamodbav:"CampaignID"`
	EmailRecordID string          `json:"email_record_id" dynamodbav:"EmailRecordID"`
	Type          InteractionType `json:"type" dynamodbav:"Type"`
	OccurredAt    time.Time       `json:"occurred_at" dynamodbav:"OccurredAt"`
}
