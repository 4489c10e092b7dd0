package domain

import (
	"time"
)

// CampaignStatus enumerates the lifecycle states of a simulation campaign.
type CampaignStatus string

const (
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignRunning   CampaignStatus = "running"
	CampaignCompleted CampaignStatus = "completed"
	CampaignArchived  CampaignStatus = "archived"
)

// Campaign represents one phishing-simulation run. The three counters are
// denormalized aggregates: Sent is fixed at creation time (= recipient
// count), Clicked and Submitted are mutated only through the store's
// atomic increment-in-place operation. Nothing in the request path ever
// does a read-modify-write on them.
type Campaign struct {
	ID                string         `json:"id" dynamodbav:"ID"`
	TenantID          string         `json:"tenant_id" dynamodbav:"TenantID"`
	Name              string         `json:"name" dynamodbav:"Name"`
	TemplateID        string         `json:"template_id" dynamodbav:"TemplateID"`
	ParticipantListID string         `json:"participant_list_id" dynamodbav:"ParticipantListID"`
	Status            CampaignStatus `json:"status" dynamodbav:"Status"`
	ScheduledAt       time.Time      `json:"scheduled_at" dynamodbav:"ScheduledAt"`

	Sent      int `json:"sent" dynamodbav:"Sent"`
	Clicked   int `json:"clicked" dynamodbav:"Clicked"`
	Submitted int `json:"submitted" dynamodbav:"Submitted"`

	CreatedAt time.Time  `json:"created_at" dynamodbav:"CreatedAt"`
	StartedAt *time.Time `json:"started_at,omitempty" dynamodbav:"StartedAt,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty" dynamodbav:"EndedAt,omitempty"`
}

// IsTerminal returns true if the campaign is in a final state.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignCompleted || c.Status == CampaignArchived
}

// CounterField names a denormalized campaign counter. The values double as
// the stored attribute names, so they must never change once data exists.
type CounterField string

const (
	CounterClicked   CounterField = "Clicked"
	CounterSubmitted CounterField = "Submitted"
)
