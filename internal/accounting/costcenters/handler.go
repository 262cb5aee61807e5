package costcenters

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
	centers, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list cost centers", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if centers == nil {
		centers = []CostCenter{}
	}
	httpx.JSON(w, http.StatusOK, centers)
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
	cc, err := h.service.Create(r.Context(), companyID, form)
	if err != nil {
		h.respondDomainError(w, err, "create cost center")
		return
	}
	httpx.JSON(w, http.StatusCreated, cc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "costCenterID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid cost center id")
		return
	}
	var form UpdateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	cc, err := h.service.Update(r.Context(), id, form)
	if err != nil {
		h.respondDomainError(w, err, "update cost center")
		return
	}
	httpx.JSON(w, http.StatusOK, cc)
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, acctshared.ErrDuplicateCode):
		httpx.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, acctshared.ErrInvalidReference), errors.Is(err, acctshared.ErrHierarchyCycle):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
