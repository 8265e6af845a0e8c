// Package handlers exposes the console's HTTP API: the fulfilment search
// lifecycle, subscriber profile and provisioning passthrough, and the CDR
// history view.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/clients"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/models"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/session"
)

// SearchManager is the session-manager surface the handlers depend on.
type SearchManager interface {
	StartSearch(consoleKey, msisdn string, from, to time.Time) *session.Session
	Get(id string) (*session.Session, bool)
	Cancel(id string) bool
}

// Gateway is the provisioning-gateway surface the handlers depend on.
type Gateway interface {
	GetProfile(ctx context.Context, msisdn string) (*clients.SubscriberProfile, error)
	SetVoLTE(ctx context.Context, msisdn string, enabled bool) error
	ResetAPN(ctx context.Context, msisdn string) error
	SubmitBatchJob(ctx context.Context, req clients.BatchJobRequest) (*clients.BatchJobResponse, error)
}

// CDRStore is the CDR-history surface the handlers depend on.
type CDRStore interface {
	ListSubscriberCDRs(ctx context.Context, msisdn string, from, to time.Time, limit int32) ([]*models.CDR, error)
}

// Handler implements the console HTTP API
type Handler struct {
	sessions SearchManager
	gateway  Gateway
	cdrs     CDRStore
}

// NewHandler creates a new Handler with the given collaborators
func NewHandler(sessions SearchManager, gateway Gateway, cdrs CDRStore) *Handler {
	return &Handler{
		sessions: sessions,
		gateway:  gateway,
		cdrs:     cdrs,
	}
}

// Routes builds the chi router for the console API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/subscribers/{msisdn}/fulfilment/searches", h.StartFulfilmentSearch)
		r.Get("/fulfilment/searches/{sessionID}", h.GetFulfilmentSearch)
		r.Delete("/fulfilment/searches/{sessionID}", h.CancelFulfilmentSearch)

		r.Get("/subscribers/{msisdn}/profile", h.GetProfile)
		r.Post("/subscribers/{msisdn}/volte", h.SetVoLTE)
		r.Post("/subscribers/{msisdn}/apn/reset", h.ResetAPN)
		r.Get("/subscribers/{msisdn}/cdrs", h.GetCDRs)

		r.Post("/batch-jobs", h.SubmitBatchJob)
	})

	return r
}

// searchRequest is the body of a fulfilment search request
type searchRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// searchResponse acknowledges a started search
type searchResponse struct {
	SessionID string `json:"sessionId"`
}

// searchStatusResponse is the polled state of a search
type searchStatusResponse struct {
	SessionID string                    `json:"sessionId"`
	Phase     session.Phase             `json:"phase"`
	Error     string                    `json:"error,omitempty"`
	Traces    []*models.FulfilmentTrace `json:"traces"`
}

// StartFulfilmentSearch validates the subscriber and date range and starts
// a new search session, cancelling any previous search for the same
// console session.
func (h *Handler) StartFulfilmentSearch(w http.ResponseWriter, r *http.Request) {
	msisdn, err := models.NormalizeMSISDN(chi.URLParam(r, "msisdn"))
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_MSISDN", err.Error())
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body")
		return
	}

	from, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_DATE", "startDate must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_DATE", "endDate must be YYYY-MM-DD")
		return
	}
	if err := models.ValidateDateRange(from, to); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_DATE_RANGE", err.Error())
		return
	}

	s := h.sessions.StartSearch(consoleKey(r), msisdn, from, to)

	sendJSON(w, http.StatusAccepted, searchResponse{SessionID: s.ID})
}

// GetFulfilmentSearch returns the current phase and trace list of a search.
func (h *Handler) GetFulfilmentSearch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		sendErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "No such search session")
		return
	}

	phase, errMsg, traces := s.Snapshot()
	if traces == nil {
		traces = []*models.FulfilmentTrace{}
	}

	sendJSON(w, http.StatusOK, searchStatusResponse{
		SessionID: s.ID,
		Phase:     phase,
		Error:     errMsg,
		Traces:    traces,
	})
}

// CancelFulfilmentSearch cancels an in-flight search. Cancelling a search
// that already finished is a no-op.
func (h *Handler) CancelFulfilmentSearch(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Cancel(chi.URLParam(r, "sessionID")) {
		sendErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "No such search session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProfile returns the subscriber profile from the provisioning gateway.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	msisdn, err := models.NormalizeMSISDN(chi.URLParam(r, "msisdn"))
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_MSISDN", err.Error())
		return
	}

	profile, err := h.gateway.GetProfile(r.Context(), msisdn)
	if err != nil {
		sendErrorResponse(w, http.StatusBadGateway, "GATEWAY_ERROR", err.Error())
		return
	}

	sendJSON(w, http.StatusOK, profile)
}

// volteRequest selects the VoLTE action to perform
type volteRequest struct {
	Action string `json:"action"` // "activate" or "deactivate"
}

// SetVoLTE activates or deactivates VoLTE via the provisioning gateway.
func (h *Handler) SetVoLTE(w http.ResponseWriter, r *http.Request) {
	msisdn, err := models.NormalizeMSISDN(chi.URLParam(r, "msisdn"))
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_MSISDN", err.Error())
		return
	}

	var req volteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body")
		return
	}

	var enabled bool
	switch req.Action {
	case "activate":
		enabled = true
	case "deactivate":
		enabled = false
	default:
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_ACTION", "action must be activate or deactivate")
		return
	}

	if err := h.gateway.SetVoLTE(r.Context(), msisdn, enabled); err != nil {
		sendErrorResponse(w, http.StatusBadGateway, "GATEWAY_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetAPN resets the subscriber's APN profile via the provisioning gateway.
func (h *Handler) ResetAPN(w http.ResponseWriter, r *http.Request) {
	msisdn, err := models.NormalizeMSISDN(chi.URLParam(r, "msisdn"))
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_MSISDN", err.Error())
		return
	}

	if err := h.gateway.ResetAPN(r.Context(), msisdn); err != nil {
		sendErrorResponse(w, http.StatusBadGateway, "GATEWAY_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitBatchJob forwards a batch provisioning job to the gateway.
func (h *Handler) SubmitBatchJob(w http.ResponseWriter, r *http.Request) {
	var req clients.BatchJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body")
		return
	}
	if req.Operation == "" || len(req.MSISDNs) == 0 {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "operation and msisdns are required")
		return
	}

	// Normalize every subscriber before submission; one bad entry fails
	// the whole job rather than silently provisioning a subset.
	normalized := make([]string, 0, len(req.MSISDNs))
	for _, raw := range req.MSISDNs {
		msisdn, err := models.NormalizeMSISDN(raw)
		if err != nil {
			sendErrorResponse(w, http.StatusBadRequest, "INVALID_MSISDN", err.Error())
			return
		}
		normalized = append(normalized, msisdn)
	}
	req.MSISDNs = normalized

	resp, err := h.gateway.SubmitBatchJob(r.Context(), req)
	if err != nil {
		sendErrorResponse(w, http.StatusBadGateway, "GATEWAY_ERROR", err.Error())
		return
	}

	sendJSON(w, http.StatusAccepted, resp)
}

// GetCDRs returns the subscriber's CDR history from the CDR store.
func (h *Handler) GetCDRs(w http.ResponseWriter, r *http.Request) {
	msisdn, err := models.NormalizeMSISDN(chi.URLParam(r, "msisdn"))
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_MSISDN", err.Error())
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -7)
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			sendErrorResponse(w, http.StatusBadRequest, "INVALID_DATE", "from must be YYYY-MM-DD")
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			sendErrorResponse(w, http.StatusBadRequest, "INVALID_DATE", "to must be YYYY-MM-DD")
			return
		}
	}
	if err := models.ValidateDateRange(from, to); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "INVALID_DATE_RANGE", err.Error())
		return
	}

	limit := int32(100)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			sendErrorResponse(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
			return
		}
		limit = int32(n)
	}

	cdrs, err := h.cdrs.ListSubscriberCDRs(r.Context(), msisdn, from, to, limit)
	if err != nil {
		sendErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	sendJSON(w, http.StatusOK, map[string]any{"content": cdrs})
}

// consoleKey identifies the browser session a search belongs to, so a new
// search replaces the previous one for the same operator tab.
func consoleKey(r *http.Request) string {
	if key := r.Header.Get("X-Console-Session"); key != "" {
		return key
	}
	return r.RemoteAddr
}

// errorResponse is the API error envelope
type errorResponse struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	ID          uuid.UUID `json:"id"`
}

// sendErrorResponse sends an error response in the expected format
func sendErrorResponse(w http.ResponseWriter, statusCode int, code, description string) {
	sendJSON(w, statusCode, errorResponse{
		Code:        code,
		Description: description,
		ID:          uuid.New(),
	})
}

// sendJSON writes a JSON response with the given status code
func sendJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
