package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ignite/phishdrill/internal/domain"
	"github.com/ignite/phishdrill/internal/service/campaign"
)

type memRepo struct {
	mu        sync.Mutex
	campaigns map[string]*domain.Campaign
}

func newMemRepo() *memRepo {
	return &memRepo{campaigns: make(map[string]*domain.Campaign)}
}

func (m *memRepo) add(c domain.Campaign) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := c
	m.campaigns[c.TenantID+"/"+c.ID] = &cp
}

func (m *memRepo) status(tenantID, id string) domain.CampaignStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.campaigns[tenantID+"/"+id].Status
}

func (m *memRepo) CreateCampaign(context.Context, *domain.Campaign, *domain.ParticipantList, []domain.EmailRecord) error {
	return nil
}

func (m *memRepo) GetCampaign(_ context.Context, tenantID, id string) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[tenantID+"/"+id]
	if !ok {
		return nil, campaign.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) ListCampaigns(context.Context, string) ([]domain.Campaign, error) {
	return nil, nil
}

func (m *memRepo) ListEmailRecords(context.Context, string, string) ([]domain.EmailRecord, error) {
	return nil, nil
}

func (m *memRepo) UpdateCampaignStatus(_ context.Context, tenantID, id string, status domain.CampaignStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[tenantID+"/"+id]
	if !ok {
		return campaign.ErrNotFound
	}
	c.Status = status
	return nil
}

func (m *memRepo) ListDueCampaigns(_ context.Context, status domain.CampaignStatus, before time.Time) ([]domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Campaign
	for _, c := range m.campaigns {
		if c.Status == status && !c.ScheduledAt.After(before) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func TestTickStartsDueCampaigns(t *testing.T) {
	repo := newMemRepo()
	now := time.Now().UTC()

	repo.add(domain.Campaign{ID: "due", TenantID: "t1", Status: domain.CampaignScheduled, ScheduledAt: now.Add(-time.Minute)})
	repo.add(domain.Campaign{ID: "future", TenantID: "t1", Status: domain.CampaignScheduled, ScheduledAt: now.Add(time.Hour)})

	s := NewScheduler(repo, 0, 0)
	s.Tick(context.Background())

	if got := repo.status("t1", "due"); got != domain.CampaignRunning {
		t.Fatalf("due campaign status = %s, want running", got)
	}
	if got := repo.status("t1", "future"); got != domain.CampaignScheduled {
		t.Fatalf("future campaign status = %s, want scheduled", got)
	}
}

func TestTickCompletesExpiredCampaigns(t *testing.T) {
	repo := newMemRepo()
	now := time.Now().UTC()
	window := 24 * time.Hour

	repo.add(domain.Campaign{ID: "old", TenantID: "t1", Status: domain.CampaignRunning, ScheduledAt: now.Add(-2 * window)})
	repo.add(domain.Campaign{ID: "fresh", TenantID: "t1", Status: domain.CampaignRunning, ScheduledAt: now.Add(-time.Hour)})

	s := NewScheduler(repo, 0, window)
	s.Tick(context.Background())

	if got := repo.status("t1", "old"); got != domain.CampaignCompleted {
		t.Fatalf("expired campaign status = %s, want completed", got)
	}
	if got := repo.status("t1", "fresh"); got != domain.CampaignRunning {
		t.Fatalf("fresh campaign status = %s, want running", got)
	}
}

func TestTickSpansTenants(t *testing.T) {
	repo := newMemRepo()
	now := time.Now().UTC()

	repo.add(domain.Campaign{ID: "a", TenantID: "t1", Status: domain.CampaignScheduled, ScheduledAt: now.Add(-time.Minute)})
	repo.add(domain.Campaign{ID: "b", TenantID: "t2", Status: domain.CampaignScheduled, ScheduledAt: now.Add(-time.Minute)})

	s := NewScheduler(repo, 0, 0)
	s.Tick(context.Background())

	if got := repo.status("t1", "a"); got != domain.CampaignRunning {
		t.Fatalf("t1 campaign status = %s, want running", got)
	}
	if got := repo.status("t2", "b"); got != domain.CampaignRunning {
		t.Fatalf("t2 campaign status = %s, want running", got)
	}
}

func TestArchivedCampaignsAreLeftAlone(t *testing.T) {
	repo := newMemRepo()
	now := time.Now().UTC()

	repo.add(domain.Campaign{ID: "arch", TenantID: "t1", Status: domain.CampaignArchived, ScheduledAt: now.Add(-time.Hour)})

	s := NewScheduler(repo, 0, 0)
	s.Tick(context.Background())

	if got := repo.status("t1", "arch"); got != domain.CampaignArchived {
		t.Fatalf("archived campaign status = %s, want archived", got)
	}
}

func TestStartStop(t *testing.T) {
	repo := newMemRepo()
	s := NewScheduler(repo, 10*time.Millisecond, time.Hour)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(); err == nil {
		t.Fatal("second start should fail")
	}
	s.Stop()
	s.Stop() // second stop is a no-op
}
