package interaction_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ignite/phishdrill/internal/domain"
	"github.com/ignite/phishdrill/internal/service/interaction"
	"github.com/ignite/phishdrill/internal/token"
)

// memStore is an in-memory interaction repository for unit testing.
type memStore struct {
	mu       sync.Mutex
	records  map[string]*domain.EmailRecord // keyed by tenant/campaign/record
	events   []domain.Interaction
	counters map[string]int // keyed by tenant/campaign/field

	failAppend    error
	failIncrement error
}

func newMemStore() *memStore {
	return &memStore{
		records:  make(map[string]*domain.EmailRecord),
		counters: make(map[string]int),
	}
}

func key(parts ...string) string {
	k := parts[0]
	for _, p := range parts[1:] {
		k += "/" + p
	}
	return k
}

func (m *memStore) addRecord(tenant, campaign, id, email string) {
	m.records[key(tenant, campaign, id)] = &domain.EmailRecord{
		ID: id, TenantID: tenant, CampaignID: campaign,
		ParticipantEmail: email, DeliveryStatus: "sent",
	}
}

func (m *memStore) GetEmailRecord(_ context.Context, tenant, campaign, id string) (*domain.EmailRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key(tenant, campaign, id)]
	if !ok {
		return nil, interaction.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memStore) AppendInteraction(_ context.Context, evt *domain.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAppend != nil {
		return m.failAppend
	}
	cp := *evt
	cp.OccurredAt = time.Now().UTC()
	m.events = append(m.events, cp)
	return nil
}

func (m *memStore) IncrementCounter(_ context.Context, tenant, campaign string, counter domain.CounterField) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIncrement != nil {
		return m.failIncrement
	}
	m.counters[key(tenant, campaign, string(counter))]++
	return nil
}

var testID = token.Identity{TenantID: "admin1", CampaignID: "camp1", EmailRecordID: "rec1"}

func TestRecordClick(t *testing.T) {
	store := newMemStore()
	store.addRecord("admin1", "camp1", "rec1", "user@corp.test")
	rec := interaction.NewRecorder(store)

	if err := rec.Record(context.Background(), testID, domain.InteractionClick); err != nil {
		t.Fatalf("record: %v", err)
	}

	if len(store.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.events))
	}
	evt := store.events[0]
	if evt.Type != domain.InteractionClick || evt.CampaignID != "camp1" || evt.EmailRecordID != "rec1" {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if evt.OccurredAt.IsZero() {
		t.Fatal("expected store-stamped timestamp")
	}
	if got := store.counters[key("admin1", "camp1", "Clicked")]; got != 1 {
		t.Fatalf("expected Clicked=1, got %d", got)
	}
	if got := store.counters[key("admin1", "camp1", "Submitted")]; got != 0 {
		t.Fatalf("expected Submitted untouched, got %d", got)
	}
}

func TestRecordSubmitFeedsSubmittedCounter(t *testing.T) {
	store := newMemStore()
	store.addRecord("admin1", "camp1", "rec1", "user@corp.test")
	rec := interaction.NewRecorder(store)

	if err := rec.Record(context.Background(), testID, domain.InteractionSubmit); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := store.counters[key("admin1", "camp1", "Submitted")]; got != 1 {
		t.Fatalf("expected Submitted=1, got %d", got)
	}
}

func TestRepeatCallsAreNotDeduplicated(t *testing.T) {
	store := newMemStore()
	store.addRecord("admin1", "camp1", "rec1", "user@corp.test")
	rec := interaction.NewRecorder(store)

	const n = 5
	for i := 0; i < n; i++ {
		if err := rec.Record(context.Background(), testID, domain.InteractionClick); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if len(store.events) != n {
		t.Fatalf("expected %d events, got %d", n, len(store.events))
	}
	if got := store.counters[key("admin1", "camp1", "Clicked")]; got != n {
		t.Fatalf("expected Clicked=%d, got %d", n, got)
	}
}

func TestUnknownIdentityWritesNothing(t *testing.T) {
	store := newMemStore()
	rec := interaction.NewRecorder(store)

	err := rec.Record(context.Background(), testID, domain.InteractionClick)
	if !errors.Is(err, interaction.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(store.events) != 0 || len(store.counters) != 0 {
		t.Fatal("expected no writes for unknown identity")
	}
}

func TestInvalidType(t *testing.T) {
	store := newMemStore()
	store.addRecord("admin1", "camp1", "rec1", "user@corp.test")
	rec := interaction.NewRecorder(store)

	err := rec.Record(context.Background(), testID, domain.InteractionType("forwarded"))
	if !errors.Is(err, interaction.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if len(store.events) != 0 {
		t.Fatal("expected no writes for invalid type")
	}
}

func TestAppendFailureSurfaces(t *testing.T) {
	store := newMemStore()
	store.addRecord("admin1", "camp1", "rec1", "user@corp.test")
	store.failAppend = fmt.Errorf("provisioned throughput exceeded")
	rec := interaction.NewRecorder(store)

	err := rec.Record(context.Background(), testID, domain.InteractionClick)
	if err == nil {
		t.Fatal("expected append failure to surface")
	}
	if got := store.counters[key("admin1", "camp1", "Clicked")]; got != 0 {
		t.Fatalf("counter must not move when append fails, got %d", got)
	}
}

func TestIncrementFailureSurfacesAfterAppend(t *testing.T) {
	store := newMemStore()
	store.addRecord("admin1", "camp1", "rec1", "user@corp.test")
	store.failIncrement = fmt.Errorf("provisioned throughput exceeded")
	rec := interaction.NewRecorder(store)

	err := rec.Record(context.Background(), testID, domain.InteractionClick)
	if err == nil {
		t.Fatal("expected increment failure to surface")
	}
	// Documented partial-failure mode: the event is durable even when the
	// counter bump fails.
	if len(store.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.events))
	}
}

func TestConcurrentRecordsLoseNoUpdates(t *testing.T) {
	store := newMemStore()
	store.addRecord("admin1", "camp1", "rec1", "user@corp.test")
	rec := interaction.NewRecorder(store)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- rec.Record(context.Background(), testID, domain.InteractionClick)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent record: %v", err)
		}
	}

	if len(store.events) != n {
		t.Fatalf("expected %d events, got %d", n, len(store.events))
	}
	if got := store.counters[key("admin1", "camp1", "Clicked")]; got != n {
		t.Fatalf("expected Clicked=%d, got %d", n, got)
	}
}
