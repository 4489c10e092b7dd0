package interaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/phishdrill/internal/domain"
	"github.com/ignite/phishdrill/internal/pkg/logger"
	"github.com/ignite/phishdrill/internal/token"
)

// Recorder records participant interactions. Safe for concurrent use if
// the underlying repository is concurrency-safe; the Recorder itself holds
// no mutable state.
type Recorder struct {
	repo Repository
}

// NewRecorder creates a recorder backed by the given repository.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Record appends one interaction event for the given identity and bumps
// the matching campaign counter.
//
// The two writes are issued sequentially and both are always attempted
// once the identity resolves; a failure of either surfaces to the caller.
// There is deliberately no deduplication: a participant who clicks the
// same link twice produces two events and a counter delta of 2. Repeat
// engagement is itself signal, so callers must not assume
// clicked <= recipient count.
func (r *Recorder) Record(ctx context.Context, id token.Identity, typ domain.InteractionType) error {
	if !typ.Valid() {
		return ErrInvalidType
	}

	// Resolve the identity before any write. An unresolvable triple means
	// nothing is persisted at all.
	if _, err := r.repo.GetEmailRecord(ctx, id.TenantID, id.CampaignID, id.EmailRecordID); err != nil {
		return fmt.Errorf("resolve email record: %w", err)
	}

	evt := &domain.Interaction{
		ID:            uuid.New().String(),
		TenantID:      id.TenantID,
		CampaignID:    id.CampaignID,
		EmailRecordID: id.EmailRecordID,
		Type:          typ,
	}
	if err := r.repo.AppendInteraction(ctx, evt); err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}

	if err := r.repo.IncrementCounter(ctx, id.TenantID, id.CampaignID, typ.Counter()); err != nil {
		// The event is already durable; surface the partial failure
		// rather than retrying (retrying an increment is not safe without
		// a dedupe key on the event side).
		return fmt.Errorf("increment %s: %w", typ.Counter(), err)
	}

	logger.Info("interaction recorded",
		"type", string(typ),
		"campaign", id.CampaignID,
		"record", id.EmailRecordID,
	)
	return nil
}
