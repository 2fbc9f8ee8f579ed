package handlers

import (
	"net/http"
	"strconv"

	"github.com/diavgeia-watch/diavgeia/core/application/services"
	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http/dto"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http/middleware"
	apperrors "github.com/diavgeia-watch/diavgeia/core/shared/errors"
)

// APIHandler serves the /api endpoints
type APIHandler struct {
	*BaseHandler
	query     interfaces.QueryService
	dashboard interfaces.DashboardService
}

// NewAPIHandler creates the /api handler set
func NewAPIHandler(query interfaces.QueryService, dashboard interfaces.DashboardService) *APIHandler {
	return &APIHandler{
		BaseHandler: NewBaseHandler("handler"),
		query:       query,
		dashboard:   dashboard,
	}
}

// Health handles GET /api/health
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.WriteSuccess(w, dto.HealthResponse{Status: "ok"})
}

// Heartbeat handles GET /heartbeat
func (h *APIHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	h.WriteSuccess(w, map[string]bool{"success": true})
}

// Stats handles GET /api/stats
func (h *APIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, stats)
}

// Ask handles POST /api/ask. The body is decoded by ValidateRequest.
// Agent failures are reported in the body with status 200.
func (h *APIHandler) Ask(w http.ResponseWriter, r *http.Request) {
	req, ok := middleware.Body[dto.AskRequest](r.Context())
	if !ok {
		h.WriteError(w, apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "Invalid JSON", nil))
		return
	}

	outcome, err := h.query.Ask(r.Context(), req.Question)
	if err != nil {
		h.logger.Warnf("Rejected question: %v", err)
		h.WriteError(w, err)
		return
	}
	if !outcome.Success {
		h.logger.Warnf("Question failed after %d attempt(s): %s", outcome.Attempts, outcome.Error)
	} else {
		h.logger.Debugf("Question answered in %d attempt(s), %d row(s)", outcome.Attempts, len(outcome.Rows))
	}
	h.WriteSuccess(w, dto.NewAskResponse(outcome))
}

// TopSpenders handles GET /api/top-spenders?limit=N
func (h *APIHandler) TopSpenders(w http.ResponseWriter, r *http.Request) {
	rows, err := h.dashboard.TopSpenders(r.Context(), intParam(r, "limit", services.DefaultLimit))
	h.writeRows(w, rows, err)
}

// TopContractors handles GET /api/top-contractors?limit=N
func (h *APIHandler) TopContractors(w http.ResponseWriter, r *http.Request) {
	rows, err := h.dashboard.TopContractors(r.Context(), intParam(r, "limit", services.DefaultLimit))
	h.writeRows(w, rows, err)
}

// SpendingByDate handles GET /api/spending-by-date
func (h *APIHandler) SpendingByDate(w http.ResponseWriter, r *http.Request) {
	rows, err := h.dashboard.SpendingByDate(r.Context())
	h.writeRows(w, rows, err)
}

// RecentDecisions handles GET /api/recent-decisions?limit=N
func (h *APIHandler) RecentDecisions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.dashboard.RecentDecisions(r.Context(), intParam(r, "limit", services.DefaultRecentLimit))
	h.writeRows(w, rows, err)
}

// Network handles GET /api/network?min_amount=X&max_edges=N
func (h *APIHandler) Network(w http.ResponseWriter, r *http.Request) {
	graph, err := h.dashboard.Network(r.Context(),
		floatParam(r, "min_amount", services.DefaultNetworkMin),
		intParam(r, "max_edges", services.DefaultNetworkEdges))
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, graph)
}

// Anomalies handles GET /api/anomalies
func (h *APIHandler) Anomalies(w http.ResponseWriter, r *http.Request) {
	anomalies, err := h.dashboard.Anomalies(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, dto.AnomaliesResponse{Anomalies: anomalies, Count: len(anomalies)})
}

func (h *APIHandler) writeRows(w http.ResponseWriter, rows []map[string]any, err error) {
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, dto.DataResponse{Data: rows})
}

func intParam(r *http.Request, name string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return v
	}
	return fallback
}

func floatParam(r *http.Request, name string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64); err == nil {
		return v
	}
	return fallback
}
