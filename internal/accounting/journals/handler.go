package journals

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

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

type listResponse struct {
	Entries    []Entry           `json:"entries"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company id")
		return
	}
	filter, err := parseListFilter(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, pagination, err := h.service.List(r.Context(), companyID, filter)
	if err != nil {
		h.logger.Error("list journal entries", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Entries: entries, Pagination: pagination})
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Status: q.Get("status")}
	if filter.Status != "" {
		switch Status(filter.Status) {
		case StatusDraft, StatusPosted, StatusCancelled:
		default:
			return ListFilter{}, errors.New("invalid status filter")
		}
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ListFilter{}, errors.New("invalid page")
		}
		filter.Page = n
	}
	if v := q.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ListFilter{}, errors.New("invalid per_page")
		}
		filter.PerPage = n
	}
	if v := q.Get("start_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return ListFilter{}, errors.New("invalid start_date")
		}
		filter.StartDate = &d
	}
	if v := q.Get("end_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return ListFilter{}, errors.New("invalid end_date")
		}
		filter.EndDate = &d
	}
	return filter, nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company id")
		return
	}
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "authentication required")
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
	entry, err := h.service.Create(r.Context(), companyID, identity.UserID, r.Header.Get("Idempotency-Key"), form)
	if err != nil {
		h.respondDomainError(w, err, "create journal entry")
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}
	entry, err := h.service.Get(r.Context(), entryID)
	if err != nil {
		h.respondDomainError(w, err, "get journal entry")
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	entry, err := h.service.Post(r.Context(), entryID, identity.UserID)
	if err != nil {
		h.respondDomainError(w, err, "post journal entry")
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	entry, err := h.service.Cancel(r.Context(), entryID, identity.UserID)
	if err != nil {
		h.respondDomainError(w, err, "cancel journal entry")
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := h.service.Discard(r.Context(), entryID, identity.UserID); err != nil {
		h.respondDomainError(w, err, "discard journal entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid entry id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, acctshared.ErrEntryNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, acctshared.ErrUnbalanced),
		errors.Is(err, acctshared.ErrTooFewLines),
		errors.Is(err, acctshared.ErrInvalidStatus),
		errors.Is(err, acctshared.ErrPeriodClosed),
		errors.Is(err, acctshared.ErrTotalMismatch),
		errors.Is(err, acctshared.ErrInvalidReference),
		errors.Is(err, acctshared.ErrAccountNotFound),
		errors.Is(err, acctshared.ErrNotAnalytical),
		errors.Is(err, acctshared.ErrAccountInactive):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
