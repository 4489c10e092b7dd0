package interaction

import (
	"context"

	"github.com/ignite/phishdrill/internal/domain"
)

// Repository defines the store contract the Recorder needs.
// Implementations must be safe for concurrent use.
type Repository interface {
	// GetEmailRecord resolves a recipient record by its full key.
	// Returns ErrNotFound if the tenant/campaign/record triple does not
	// exist.
	GetEmailRecord(ctx context.Context, tenantID, campaignID, emailRecordID string) (*domain.EmailRecord, error)

	// AppendInteraction persists a new interaction event. The store stamps
	// OccurredAt; any timestamp on evt is ignored. Events are append-only.
	AppendInteraction(ctx context.Context, evt *domain.Interaction) error

	// IncrementCounter adds exactly 1 to the named counter on the campaign
	// document, using an increment-in-place operation that is safe under
	// concurrent callers. Returns ErrNotFound if the campaign does not
	// exist.
	IncrementCounter(ctx context.Context, tenantID, campaignID string, counter domain.CounterField) error
}
