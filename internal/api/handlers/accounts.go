package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/bank-transactions/internal/api/httpx"
	"github.com/baharkarakas/bank-transactions/internal/services"
)

type AccountHandler struct {
	svc *services.AccountService
	log *slog.Logger
}

func NewAccountHandler(svc *services.AccountService, log *slog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, log: log}
}

// POST /accounts/create
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}
	a, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, a)
}

// GET /accounts/{iban}
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), chi.URLParam(r, "iban"))
	if err != nil {
		if services.ErrorCode(err) == "account_not_found" {
			httpx.WriteError(w, http.StatusNotFound, "account_not_found", err.Error(), nil)
			return
		}
		writeServiceError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}
