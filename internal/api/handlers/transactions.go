package handlers

import (
	"log/slog"
	"net/http"

	"github.com/baharkarakas/bank-transactions/internal/api/httpx"
	"github.com/baharkarakas/bank-transactions/internal/models"
	"github.com/baharkarakas/bank-transactions/internal/services"
)

type TransactionHandler struct {
	svc *services.TransactionService
	log *slog.Logger
}

func NewTransactionHandler(svc *services.TransactionService, log *slog.Logger) *TransactionHandler {
	return &TransactionHandler{svc: svc, log: log}
}

// POST /transactions/create
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}
	t, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

// GET /transactions/search?account_iban=&sort_direction=
func (h *TransactionHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dir, err := models.ParseSortDirection(q.Get("sort_direction"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_sort_direction", err.Error(), nil)
		return
	}
	list, err := h.svc.Search(r.Context(), q.Get("account_iban"), dir)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

// GET /transactions/status?reference=&channel=
func (h *TransactionHandler) Status(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	channel, err := models.ParseChannel(q.Get("channel"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	view, err := h.svc.Status(r.Context(), q.Get("reference"), channel)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}
