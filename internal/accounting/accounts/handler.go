package accounts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
	"github.com/razao-erp/razao-erp/internal/platform/httpx"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company id")
		return
	}
	views, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list accounts", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if views == nil {
		views = []View{}
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company id")
		return
	}
	var form CreateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.service.Create(r.Context(), companyID, form)
	if err != nil {
		h.respondDomainError(w, err, "create account")
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	var form UpdateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	view, err := h.service.Update(r.Context(), id, form)
	if err != nil {
		h.respondDomainError(w, err, "update account")
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, acctshared.ErrDuplicateCode):
		httpx.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, acctshared.ErrInvalidReference), errors.Is(err, acctshared.ErrHierarchyCycle):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, acctshared.ErrAccountNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
