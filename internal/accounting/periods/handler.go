package periods

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
	"github.com/razao-erp/razao-erp/internal/platform/httpx"
	"github.com/razao-erp/razao-erp/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type openForm struct {
	Year  int `json:"year" validate:"required,min=1900,max=2200"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company id")
		return
	}
	list, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list fiscal periods", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if list == nil {
		list = []FiscalPeriod{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company id")
		return
	}
	var form openForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.Open(r.Context(), companyID, form.Year, form.Month)
	if err != nil {
		switch {
		case errors.Is(err, acctshared.ErrDuplicateCode):
			httpx.Error(w, http.StatusConflict, "fiscal period already exists")
		case errors.Is(err, acctshared.ErrInvalidReference):
			httpx.Error(w, http.StatusBadRequest, "invalid year or month")
		default:
			h.logger.Error("open fiscal period", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	h.setClosed(w, r, true, "close fiscal period")
}

func (h *Handler) Reopen(w http.ResponseWriter, r *http.Request) {
	h.setClosed(w, r, false, "reopen fiscal period")
}

func (h *Handler) setClosed(w http.ResponseWriter, r *http.Request, closed bool, op string) {
	id, err := strconv.ParseInt(chi.URLParam(r, "periodID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid period id")
		return
	}
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if closed {
		err = h.service.Close(r.Context(), id, identity.UserID)
	} else {
		err = h.service.Reopen(r.Context(), id, identity.UserID)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "fiscal period not found")
			return
		}
		h.logger.Error(op, slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error(op, slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}
