package api

import (
	"net/http"
	"time"

	"github.com/ignite/phishdrill/internal/domain"
	"github.com/ignite/phishdrill/internal/pkg/httputil"
	"github.com/ignite/phishdrill/internal/pkg/logger"
)

// Dashboard is the aggregated awareness view for a tenant.
type Dashboard struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Totals      DashboardTotals   `json:"totals"`
	Campaigns   []CampaignSummary `json:"campaigns"`
}

// DashboardTotals rolls the per-campaign counters up across the tenant.
type DashboardTotals struct {
	Campaigns  int     `json:"campaigns"`
	Active     int     `json:"active"`
	Sent       int     `json:"sent"`
	Clicked    int     `json:"clicked"`
	Submitted  int     `json:"submitted"`
	ClickRate  float64 `json:"click_rate"`
	SubmitRate float64 `json:"submit_rate"`
}

// CampaignSummary is the dashboard row for one campaign. Clicked and
// Submitted count interaction events, not unique participants, so rates
// above 1.0 are possible and meaningful.
type CampaignSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Sent        int       `json:"sent"`
	Clicked     int       `json:"clicked"`
	Submitted   int       `json:"submitted"`
	ClickRate   float64   `json:"click_rate"`
	SubmitRate  float64   `json:"submit_rate"`
}

// GetDashboard returns the tenant dashboard, served from the stats cache
// when fresh. Counters are read-only here; a cache miss means one query
// over the tenant's campaign partition.
//
//	GET /api/dashboard
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	tenant := h.tenantID(r)

	if h.stats != nil {
		if d, ok := h.stats.Get(r.Context(), tenant); ok {
			httputil.OK(w, d)
			return
		}
	}

	campaigns, err := h.campaigns.List(r.Context(), tenant)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	d := buildDashboard(campaigns)

	if h.stats != nil {
		if err := h.stats.Set(r.Context(), tenant, d); err != nil {
			logger.Warn("stats cache write failed", "error", err.Error())
		}
	}
	httputil.OK(w, d)
}

func buildDashboard(campaigns []domain.Campaign) *Dashboard {
	d := &Dashboard{
		GeneratedAt: time.Now().UTC(),
		Campaigns:   make([]CampaignSummary, 0, len(campaigns)),
	}

	for _, c := range campaigns {
		d.Totals.Campaigns++
		if !c.IsTerminal() {
			d.Totals.Active++
		}
		d.Totals.Sent += c.Sent
		d.Totals.Clicked += c.Clicked
		d.Totals.Submitted += c.Submitted

		d.Campaigns = append(d.Campaigns, CampaignSummary{
			ID:          c.ID,
			Name:        c.Name,
			Status:      string(c.Status),
			ScheduledAt: c.ScheduledAt,
			Sent:        c.Sent,
			Clicked:     c.Clicked,
			Submitted:   c.Submitted,
			ClickRate:   rate(c.Clicked, c.Sent),
			SubmitRate:  rate(c.Submitted, c.Sent),
		})
	}

	d.Totals.ClickRate = rate(d.Totals.Clicked, d.Totals.Sent)
	d.Totals.SubmitRate = rate(d.Totals.Submitted, d.Totals.Sent)
	return d
}

func rate(events, sent int) float64 {
	if sent == 0 {
		return 0
	}
	return float64(events) / float64(sent)
}
