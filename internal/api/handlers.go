package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/phishdrill/internal/auth"
	"github.com/ignite/phishdrill/internal/pkg/httputil"
	"github.com/ignite/phishdrill/internal/pkg/logger"
	"github.com/ignite/phishdrill/internal/service/campaign"
	"github.com/ignite/phishdrill/internal/templates"
	"github.com/ignite/phishdrill/internal/tracking"
)

// Handlers holds the dependencies for the operator API endpoints.
type Handlers struct {
	campaigns   *campaign.Service
	catalog     *templates.Catalog
	stats       *StatsCache
	authManager *auth.AuthManager
	trk         *tracking.Handler
	// trackingBaseURL is the public origin of the tracking service,
	// used when deriving per-recipient links.
	trackingBaseURL string
}

// NewHandlers creates the API handlers. stats may be nil when Redis is not
// configured; the dashboard then recomputes on every request.
func NewHandlers(campaigns *campaign.Service, catalog *templates.Catalog, stats *StatsCache, trackingBaseURL string) *Handlers {
	return &Handlers{
		campaigns:       campaigns,
		catalog:         catalog,
		stats:           stats,
		trackingBaseURL: trackingBaseURL,
	}
}

// SetAuthManager wires the auth manager in after construction so handlers
// can resolve the tenant from the operator session.
func (h *Handlers) SetAuthManager(am *auth.AuthManager) {
	h.authManager = am
}

// SetTrackingHandler mounts the public tracking endpoints on this server
// too, for single-binary deployments without the standalone tracking
// service in front.
func (h *Handlers) SetTrackingHandler(trk *tracking.Handler) {
	h.trk = trk
}

// tenantID resolves the tenant for the current request. Authenticated
// sessions carry their tenant; without auth (local development) the
// X-Tenant-ID header selects one, defaulting to "default".
func (h *Handlers) tenantID(r *http.Request) string {
	if h.authManager != nil {
		if s := h.authManager.GetSession(r); s != nil {
			return s.TenantID
		}
	}
	if t := r.Header.Get("X-Tenant-ID"); t != "" {
		return t
	}
	return "default"
}

// HealthCheck reports liveness.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}

// CreateCampaign creates a campaign with its participant list and one
// email record per recipient.
//
//	POST /api/campaigns
func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var input campaign.CreateInput
	if !httputil.Decode(w, r, &input) {
		return
	}

	c, err := h.campaigns.Create(r.Context(), h.tenantID(r), input)
	if err != nil {
		h.writeCampaignError(w, err)
		return
	}

	h.invalidateStats(r)
	httputil.Created(w, c)
}

// ListCampaigns returns the tenant's campaigns, newest first.
//
//	GET /api/campaigns
func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	list, err := h.campaigns.List(r.Context(), h.tenantID(r))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"campaigns": list, "count": len(list)})
}

// GetCampaign returns a single campaign.
//
//	GET /api/campaigns/{campaignID}
func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.campaigns.Get(r.Context(), h.tenantID(r), chi.URLParam(r, "campaignID"))
	if err != nil {
		h.writeCampaignError(w, err)
		return
	}
	httputil.OK(w, c)
}

// GetCampaignEmails returns the per-recipient email records of a campaign.
//
//	GET /api/campaigns/{campaignID}/emails
func (h *Handlers) GetCampaignEmails(w http.ResponseWriter, r *http.Request) {
	records, err := h.campaigns.EmailRecords(r.Context(), h.tenantID(r), chi.URLParam(r, "campaignID"))
	if err != nil {
		h.writeCampaignError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"emails": records, "count": len(records)})
}

// GetCampaignLinks returns the derived tracking link for every recipient.
//
//	GET /api/campaigns/{campaignID}/links
func (h *Handlers) GetCampaignLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.campaigns.TrackingLinks(r.Context(), h.tenantID(r), chi.URLParam(r, "campaignID"), h.trackingBaseURL)
	if err != nil {
		h.writeCampaignError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"links": links, "count": len(links)})
}

// ArchiveCampaign moves a campaign to archived.
//
//	POST /api/campaigns/{campaignID}/archive
func (h *Handlers) ArchiveCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "campaignID")
	if err := h.campaigns.Archive(r.Context(), h.tenantID(r), id); err != nil {
		h.writeCampaignError(w, err)
		return
	}
	h.invalidateStats(r)
	httputil.OK(w, map[string]string{"id": id, "status": "archived"})
}

// ListTemplates returns the lure template catalog.
//
//	GET /api/templates
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	list := h.catalog.List()
	httputil.OK(w, map[string]any{"templates": list, "count": len(list)})
}

// PreviewTemplate renders a template with placeholder values so operators
// can review the lure before scheduling a campaign.
//
//	GET /api/templates/{templateID}/preview
func (h *Handlers) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "templateID")
	rendered, err := h.catalog.Render(id, templates.RenderInput{
		TrackingURL:      h.trackingBaseURL + "/api/interact?q=preview",
		ParticipantEmail: "participant@example.com",
		CampaignName:     "Preview",
	})
	if err != nil {
		httputil.NotFound(w, "template not found")
		return
	}
	httputil.OK(w, rendered)
}

// writeCampaignError maps campaign service errors onto HTTP responses.
func (h *Handlers) writeCampaignError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaign.ErrNotFound):
		httputil.NotFound(w, "campaign not found")
	case errors.Is(err, campaign.ErrUnknownTemplate):
		httputil.BadRequest(w, "unknown template")
	case errors.Is(err, campaign.ErrNoParticipants):
		httputil.BadRequest(w, "at least one participant is required")
	case errors.Is(err, campaign.ErrInvalidTransition):
		httputil.Error(w, http.StatusConflict, "invalid status transition")
	default:
		httputil.InternalError(w, err)
	}
}

// invalidateStats drops the cached dashboard after a write so the next
// read reflects it.
func (h *Handlers) invalidateStats(r *http.Request) {
	if h.stats == nil {
		return
	}
	if err := h.stats.Invalidate(r.Context(), h.tenantID(r)); err != nil {
		logger.Warn("stats cache invalidation failed", "error", err.Error())
	}
}
