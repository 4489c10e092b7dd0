// Package tracking serves the two public, unauthenticated tracking
// endpoints hit by simulation participants. Requests arrive from arbitrary
// untrusted clients; the token codec is the only gate in front of every
// write. Handlers hold no shared in-process state between requests.
package tracking

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/phishdrill/internal/domain"
	"github.com/ignite/phishdrill/internal/pkg/httputil"
	"github.com/ignite/phishdrill/internal/pkg/logger"
	"github.com/ignite/phishdrill/internal/service/interaction"
	"github.com/ignite/phishdrill/internal/token"
)

// Recorder is the slice of the interaction service the handlers need.
type Recorder interface {
	Record(ctx context.Context, id token.Identity, typ domain.InteractionType) error
}

// Participant-facing destinations. The capture page receives the token
// again so the submission stage can resolve the same identity.
const (
	capturePath  = "/login-simulation"
	fallbackPath = "/"
	debriefPath  = "/landing/"
)

type Handler struct {
	rec Recorder
}

func NewHandler(rec Recorder) *Handler {
	return &Handler{rec: rec}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/api/interact", h.HandleInteract)
	r.Post("/api/submit-data", h.HandleSubmitData)
	r.Get("/health", h.HandleHealth)
	return r
}

// HandleInteract records a link click and forwards the participant to the
// simulated credential-capture page. A broken backend must never show a
// training participant an error page: unexpected recording failures still
// redirect, just to the neutral landing destination instead.
func (h *Handler) HandleInteract(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		httputil.BadRequest(w, "missing tracking token")
		return
	}

	id, err := token.Decode(q)
	if err != nil {
		httputil.BadRequest(w, "invalid tracking token")
		return
	}

	if err := h.rec.Record(r.Context(), id, domain.InteractionClick); err != nil {
		if errors.Is(err, interaction.ErrNotFound) {
			// Stale or fabricated identity: nothing was written, reject
			// like any other bad token.
			httputil.BadRequest(w, "invalid tracking token")
			return
		}
		logger.Error("click recording failed",
			"campaign", id.CampaignID,
			"remote", realIP(r),
			"error", err.Error(),
		)
		http.Redirect(w, r, fallbackPath, http.StatusTemporaryRedirect)
		return
	}

	dest := capturePath + "?q=" + url.QueryEscape(q)
	http.Redirect(w, r, dest, http.StatusTemporaryRedirect)
}

// submitRequest is the full input schema of the submission endpoint. It
// models only the token: whatever credentials the participant typed are
// never read, stored, or forwarded.
type submitRequest struct {
	Q string `json:"q"`
}

type submitResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// HandleSubmitData records a data submission and returns the educational
// debrief destination. Unlike the click path there is no safe redirect
// fallback here: the caller is a programmatic client expecting JSON, so
// recording failures surface as a server error.
func (h *Handler) HandleSubmitData(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Q == "" {
		httputil.BadRequest(w, "missing tracking token")
		return
	}

	id, err := token.Decode(req.Q)
	if err != nil {
		httputil.BadRequest(w, "invalid tracking token")
		return
	}

	if err := h.rec.Record(r.Context(), id, domain.InteractionSubmit); err != nil {
		if errors.Is(err, interaction.ErrNotFound) {
			httputil.BadRequest(w, "invalid tracking token")
			return
		}
		httputil.InternalError(w, err)
		return
	}

	// The debrief path is parameterized by the campaign id from the
	// decoded token, never by anything else the client sent.
	httputil.OK(w, submitResponse{RedirectURL: debriefPath + id.CampaignID})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
