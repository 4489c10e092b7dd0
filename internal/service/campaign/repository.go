package campaign

import (
	"context"
	"time"

	"github.com/ignite/phishdrill/internal/domain"
)

// Repository defines the data access contract for campaigns.
// Implementations must be safe for concurrent use.
type Repository interface {
	// CreateCampaign persists the campaign, its participant list, and one
	// email record per recipient in a single batch. Partial creation must
	// not be observable.
	CreateCampaign(ctx context.Context, c *domain.Campaign, list *domain.ParticipantList, records []domain.EmailRecord) error

	// GetCampaign returns a single campaign. Returns ErrNotFound if it
	// doesn't exist under the tenant.
	GetCampaign(ctx context.Context, tenantID, id string) (*domain.Campaign, error)

	// ListCampaigns returns all campaigns for a tenant, newest first.
	ListCampaigns(ctx context.Context, tenantID string) ([]domain.Campaign, error)

	// ListEmailRecords returns the recipient records of one campaign.
	ListEmailRecords(ctx context.Context, tenantID, campaignID string) ([]domain.EmailRecord, error)

	// UpdateCampaignStatus transitions a campaign's lifecycle status and
	// stamps the matching timestamp field.
	UpdateCampaignStatus(ctx context.Context, tenantID, id string, status domain.CampaignStatus) error

	// ListDueCampaigns returns campaigns in the given status scheduled at
	// or before the cutoff, across all tenants. Used by the scheduler.
	ListDueCampaigns(ctx context.Context, status domain.CampaignStatus, before time.Time) ([]domain.Campaign, error)
}
