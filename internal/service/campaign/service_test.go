package campaign_test

import (
	"context"
	"net/url"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ignite/phishdrill/internal/domain"
	"github.com/ignite/phishdrill/internal/service/campaign"
	"github.com/ignite/phishdrill/internal/token"
)

// memRepo is an in-memory campaign repository for unit testing.
type memRepo struct {
	mu        sync.Mutex
	campaigns map[string]*domain.Campaign
	lists     map[string]*domain.ParticipantList
	records   map[string][]domain.EmailRecord // keyed by campaign id
}

func newMemRepo() *memRepo {
	return &memRepo{
		campaigns: make(map[string]*domain.Campaign),
		lists:     make(map[string]*domain.ParticipantList),
		records:   make(map[string][]domain.EmailRecord),
	}
}

func (m *memRepo) CreateCampaign(_ context.Context, c *domain.Campaign, list *domain.ParticipantList, records []domain.EmailRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	lp := *list
	m.campaigns[cp.ID] = &cp
	m.lists[lp.ID] = &lp
	m.records[cp.ID] = append([]domain.EmailRecord(nil), records...)
	return nil
}

func (m *memRepo) GetCampaign(_ context.Context, tenantID, id string) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.TenantID != tenantID {
		return nil, campaign.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) ListCampaigns(_ context.Context, tenantID string) ([]domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Campaign
	for _, c := range m.campaigns {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) ListEmailRecords(_ context.Context, tenantID, campaignID string) ([]domain.EmailRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.EmailRecord(nil), m.records[campaignID]...), nil
}

func (m *memRepo) UpdateCampaignStatus(_ context.Context, tenantID, id string, status domain.CampaignStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.TenantID != tenantID {
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

// stubTemplates accepts a fixed id set.
type stubTemplates map[string]bool

func (s stubTemplates) Has(id string) bool { return s[id] }

const testTenant = "admin1"

func newService(repo *memRepo) *campaign.Service {
	return campaign.NewService(repo, stubTemplates{"password-reset": true, "prize-alert": true})
}

func validInput() campaign.CreateInput {
	return campaign.CreateInput{
		Name:         "Q4 Security Drill",
		TemplateID:   "password-reset",
		Participants: []string{"alice@corp.test", "bob@corp.test", "carol@corp.test"},
		ScheduledAt:  time.Now().Add(24 * time.Hour),
	}
}

func TestCreate(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)

	c, err := svc.Create(context.Background(), testTenant, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != domain.CampaignScheduled {
		t.Fatalf("expected scheduled, got %s", c.Status)
	}
	if c.Sent != 3 || c.Clicked != 0 || c.Submitted != 0 {
		t.Fatalf("unexpected counters: sent=%d clicked=%d submitted=%d", c.Sent, c.Clicked, c.Submitted)
	}
	if len(repo.records[c.ID]) != 3 {
		t.Fatalf("expected 3 email records, got %d", len(repo.records[c.ID]))
	}
	for _, rec := range repo.records[c.ID] {
		if rec.DeliveryStatus != "sent" || rec.CampaignID != c.ID {
			t.Fatalf("unexpected record: %+v", rec)
		}
	}
	if _, ok := repo.lists[c.ParticipantListID]; !ok {
		t.Fatal("participant list not persisted")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newService(newMemRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, testTenant, campaign.CreateInput{}); err == nil {
		t.Fatal("expected validation error for empty input")
	}

	in := validInput()
	in.TemplateID = "ceo-fraud"
	if _, err := svc.Create(ctx, testTenant, in); err != campaign.ErrUnknownTemplate {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}

	in = validInput()
	in.Participants = []string{"  ", ""}
	if _, err := svc.Create(ctx, testTenant, in); err != campaign.ErrNoParticipants {
		t.Fatalf("expected ErrNoParticipants, got %v", err)
	}

	in = validInput()
	in.Participants = []string{"not an address"}
	if _, err := svc.Create(ctx, testTenant, in); err == nil {
		t.Fatal("expected address validation error")
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newService(newMemRepo())
	if _, err := svc.Get(context.Background(), testTenant, "nonexistent"); err != campaign.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetIsTenantScoped(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)
	c, _ := svc.Create(context.Background(), testTenant, validInput())

	if _, err := svc.Get(context.Background(), "other-admin", c.ID); err != campaign.ErrNotFound {
		t.Fatalf("expected ErrNotFound across tenants, got %v", err)
	}
}

func TestTrackingLinksRoundTrip(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)
	c, _ := svc.Create(context.Background(), testTenant, validInput())

	links, err := svc.TrackingLinks(context.Background(), testTenant, c.ID, "https://drill.example.com/")
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	for _, link := range links {
		u, err := url.Parse(link.InteractURL)
		if err != nil {
			t.Fatalf("parse %q: %v", link.InteractURL, err)
		}
		if u.Path != "/api/interact" {
			t.Fatalf("unexpected path %q", u.Path)
		}
		id, err := token.Decode(u.Query().Get("q"))
		if err != nil {
			t.Fatalf("embedded token does not decode: %v", err)
		}
		if id.TenantID != testTenant || id.CampaignID != c.ID || id.EmailRecordID != link.EmailRecordID {
			t.Fatalf("token identity mismatch: %+v vs link %+v", id, link)
		}
	}
}

func TestArchive(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)
	c, _ := svc.Create(context.Background(), testTenant, validInput())

	if err := svc.Archive(context.Background(), testTenant, c.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	got, _ := svc.Get(context.Background(), testTenant, c.ID)
	if got.Status != domain.CampaignArchived {
		t.Fatalf("expected archived, got %s", got.Status)
	}

	if err := svc.Archive(context.Background(), testTenant, c.ID); err != campaign.ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)

	svc.Create(context.Background(), testTenant, validInput())
	in := validInput()
	in.Name = "Spring Refresher"
	svc.Create(context.Background(), testTenant, in)
	svc.Create(context.Background(), "other-admin", validInput())

	list, err := svc.List(context.Background(), testTenant)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 campaigns, got %d", len(list))
	}
}
