package campaign

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/phishdrill/internal/domain"
	"github.com/ignite/phishdrill/internal/pkg/logger"
	"github.com/ignite/phishdrill/internal/token"
)

// Templates is the slice of the template catalog the service needs.
type Templates interface {
	Has(id string) bool
}

// Service implements campaign business logic. All public methods are safe
// for concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo      Repository
	templates Templates
}

// NewService creates a campaign service backed by the given repository
// and template catalog.
func NewService(repo Repository, templates Templates) *Service {
	return &Service{repo: repo, templates: templates}
}

// CreateInput holds the fields for creating a new campaign.
type CreateInput struct {
	Name         string    `json:"name"`
	TemplateID   string    `json:"template_id"`
	Participants []string  `json:"participants"`
	ScheduledAt  time.Time `json:"scheduled_at"`
}

// Create validates the input and persists, in one batch, the participant
// list, the campaign, and one email record per recipient. Sent is fixed
// here to the recipient count and never changes; the interaction pipeline
// owns the other two counters. No message leaves the system: each record
// is the simulated send, and the operator distributes the derived links.
func (s *Service) Create(ctx context.Context, tenantID string, input CreateInput) (*domain.Campaign, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !s.templates.Has(input.TemplateID) {
		return nil, ErrUnknownTemplate
	}

	emails := make([]string, 0, len(input.Participants))
	for _, e := range input.Participants {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, err := mail.ParseAddress(e); err != nil {
			return nil, fmt.Errorf("invalid participant address %q", logger.RedactEmail(e))
		}
		emails = append(emails, e)
	}
	if len(emails) == 0 {
		return nil, ErrNoParticipants
	}

	now := time.Now().UTC()
	scheduledAt := input.ScheduledAt
	if scheduledAt.IsZero() {
		scheduledAt = now
	}

	list := &domain.ParticipantList{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      input.Name + " - Participants",
		Emails:    emails,
		CreatedAt: now,
	}

	c := &domain.Campaign{
		ID:                uuid.New().String(),
		TenantID:          tenantID,
		Name:              input.Name,
		TemplateID:        input.TemplateID,
		ParticipantListID: list.ID,
		Status:            domain.CampaignScheduled,
		ScheduledAt:       scheduledAt,
		Sent:              len(emails),
		Clicked:           0,
		Submitted:         0,
		CreatedAt:         now,
	}

	records := make([]domain.EmailRecord, 0, len(emails))
	for _, e := range emails {
		records = append(records, domain.EmailRecord{
			ID:               uuid.New().String(),
			TenantID:         tenantID,
			CampaignID:       c.ID,
			ParticipantEmail: e,
			SentAt:           now,
			DeliveryStatus:   "sent",
		})
	}

	if err := s.repo.CreateCampaign(ctx, c, list, records); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	logger.Info("campaign created",
		"campaign", c.ID,
		"tenant", tenantID,
		"recipients", fmt.Sprintf("%d", len(records)),
	)
	return c, nil
}

// Get returns a single campaign.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	return s.repo.GetCampaign(ctx, tenantID, id)
}

// List returns all campaigns for a tenant, newest first.
func (s *Service) List(ctx context.Context, tenantID string) ([]domain.Campaign, error) {
	return s.repo.ListCampaigns(ctx, tenantID)
}

// EmailRecords returns the recipient records of a campaign.
func (s *Service) EmailRecords(ctx context.Context, tenantID, campaignID string) ([]domain.EmailRecord, error) {
	if _, err := s.repo.GetCampaign(ctx, tenantID, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListEmailRecords(ctx, tenantID, campaignID)
}

// RecipientLink pairs a participant with the tracking link that stands in
// for their outbound message.
type RecipientLink struct {
	EmailRecordID    string `json:"email_record_id"`
	ParticipantEmail string `json:"participant_email"`
	InteractURL      string `json:"interact_url"`
}

// TrackingLinks derives the per-recipient tracking links for a campaign.
// Tokens are a derived view of the (tenant, campaign, record) key and are
// never stored; re-deriving them always yields the same link.
func (s *Service) TrackingLinks(ctx context.Context, tenantID, campaignID, baseURL string) ([]RecipientLink, error) {
	records, err := s.EmailRecords(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	links := make([]RecipientLink, 0, len(records))
	for _, rec := range records {
		tok := token.Encode(token.Identity{
			TenantID:      tenantID,
			CampaignID:    campaignID,
			EmailRecordID: rec.ID,
		})
		links = append(links, RecipientLink{
			EmailRecordID:    rec.ID,
			ParticipantEmail: rec.ParticipantEmail,
			InteractURL:      fmt.Sprintf("%s/api/interact?q=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(tok)),
		})
	}
	return links, nil
}

// Archive transitions a campaign to archived. Any non-archived status may
// be archived; archiving twice is an error.
func (s *Service) Archive(ctx context.Context, tenantID, id string) error {
	c, err := s.repo.GetCampaign(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if c.Status == domain.CampaignArchived {
		return ErrInvalidTransition
	}
	return s.repo.UpdateCampaignStatus(ctx, tenantID, id, domain.CampaignArchived)
}
