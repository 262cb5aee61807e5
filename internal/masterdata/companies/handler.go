package companies

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.List(r.Context(), true)
	if err != nil {
		h.logger.Error("list companies", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if companies == nil {
		companies = []Company{}
	}
	httpx.JSON(w, http.StatusOK, companies)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := CompanyIDParam(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company id")
		return
	}
	company, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "company not found")
			return
		}
		h.logger.Error("get company", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form CompanyForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	company, err := h.service.Create(r.Context(), form)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateCNPJ):
			httpx.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidCompany):
			httpx.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("create company", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, company)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := CompanyIDParam(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company id")
		return
	}
	var form CompanyForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	company, err := h.service.Update(r.Context(), id, form)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "company not found")
		case errors.Is(err, ErrInvalidCompany):
			httpx.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("update company", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}

// CompanyIDParam parses the companyID path parameter.
func CompanyIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
}
