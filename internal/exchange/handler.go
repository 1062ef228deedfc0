package exchange

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/hourbank/backend/internal/middleware"
	"github.com/hourbank/backend/internal/models"
)

// Handler serves the exchange API. All routes assume BearerAuth has already
// placed the caller's identity in the request context.
type Handler struct {
	svc Service
	log *slog.Logger
}

func NewHandler(svc Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

type registerRequest struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

type createOfferRequest struct {
	Category     string `json:"category"`
	Description  string `json:"description"`
	TimeRequired int64  `json:"time_required"`
	TimeCost     int64  `json:"time_cost"`
}

type createOfferResponse struct {
	OfferID int64 `json:"offer_id"`
}

type createRequestRequest struct {
	OfferID int64 `json:"offer_id"`
}

type createRequestResponse struct {
	RequestID int64 `json:"request_id"`
}

// POST /api/v1/exchange/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.svc.Register(r.Context(), identity, req.Name, req.Skills); err != nil {
		h.writeServiceError(w, "register", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// GET /api/v1/account/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	acc, err := h.svc.GetAccount(r.Context(), identity)
	if err != nil {
		h.writeServiceError(w, "get account", err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// GET /api/v1/account/balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	balance, err := h.svc.GetBalance(r.Context(), identity)
	if err != nil {
		h.writeServiceError(w, "get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// GET /api/v1/account/reputation
func (h *Handler) GetReputation(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	reputation, err := h.svc.GetReputation(r.Context(), identity)
	if err != nil {
		h.writeServiceError(w, "get reputation", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"reputation": reputation})
}

// POST /api/v1/offers
func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req createOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	id, err := h.svc.CreateOffer(r.Context(), identity, req.Category, req.Description, req.TimeRequired, req.TimeCost)
	if err != nil {
		h.writeServiceError(w, "create offer", err)
		return
	}
	writeJSON(w, http.StatusCreated, createOfferResponse{OfferID: id})
}

// GET /api/v1/offers
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.svc.ListOffers(r.Context())
	if err != nil {
		h.writeServiceError(w, "list offers", err)
		return
	}
	if offers == nil {
		offers = []*models.Offer{}
	}
	writeJSON(w, http.StatusOK, offers)
}

// GET /api/v1/offers/{id}
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	offer, err := h.svc.GetOffer(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "get offer", err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// POST /api/v1/offers/{id}/deactivate
func (h *Handler) DeactivateOffer(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeactivateOffer(r.Context(), identity, id); err != nil {
		h.writeServiceError(w, "deactivate offer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/requests
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req createRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	id, err := h.svc.CreateRequest(r.Context(), identity, req.OfferID)
	if err != nil {
		h.writeServiceError(w, "create request", err)
		return
	}
	writeJSON(w, http.StatusCreated, createRequestResponse{RequestID: id})
}

// GET /api/v1/requests/{id}
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, err := h.svc.GetRequest(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "get request", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// POST /api/v1/requests/{id}/complete
func (h *Handler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.CompleteRequest(r.Context(), identity, id); err != nil {
		h.writeServiceError(w, "complete request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	evts, err := h.svc.ListEvents(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, "list events", err)
		return
	}
	if evts == nil {
		evts = []*models.Event{}
	}
	writeJSON(w, http.StatusOK, evts)
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == uuid.Nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// writeServiceError maps the engine's sentinel errors onto HTTP statuses.
// Anything unrecognized is a 500 and gets logged; ledger failures are
// expected outcomes and are not.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		h.log.Error(op+" failed", "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrOfferInactive):
		return http.StatusConflict
	case errors.Is(err, ErrSelfRequest):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
