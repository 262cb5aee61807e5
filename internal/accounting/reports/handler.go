package reports

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
	"github.com/razao-erp/razao-erp/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) AccountBalance(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	start, end, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	balance, err := h.service.AccountBalance(r.Context(), accountID, start, end)
	if err != nil {
		if errors.Is(err, acctshared.ErrAccountNotFound) {
			httpx.Error(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("account balance", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, balance)
}

func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	companyID, start, end, ok := h.companyAndRange(w, r)
	if !ok {
		return
	}
	tb, err := h.service.TrialBalance(r.Context(), companyID, start, end)
	if err != nil {
		h.logger.Error("trial balance", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, tb)
}

func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company id")
		return
	}
	end, ok := h.dateParam(w, r, "end_date")
	if !ok {
		return
	}
	bs, err := h.service.BalanceSheet(r.Context(), companyID, end)
	if err != nil {
		h.logger.Error("balance sheet", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

func (h *Handler) ExportTrialBalance(w http.ResponseWriter, r *http.Request) {
	companyID, start, end, ok := h.companyAndRange(w, r)
	if !ok {
		return
	}
	tb, err := h.service.TrialBalance(r.Context(), companyID, start, end)
	if err != nil {
		h.logger.Error("export trial balance", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="balancete.csv"`)
	if err := WriteTrialBalanceCSV(w, tb); err != nil {
		h.logger.Error("write trial balance csv", slog.Any("error", err))
	}
}

func (h *Handler) companyAndRange(w http.ResponseWriter, r *http.Request) (int64, *time.Time, *time.Time, bool) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company id")
		return 0, nil, nil, false
	}
	start, end, ok := h.dateRange(w, r)
	if !ok {
		return 0, nil, nil, false
	}
	return companyID, start, end, true
}

func (h *Handler) dateRange(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	start, ok := h.dateParam(w, r, "start_date")
	if !ok {
		return nil, nil, false
	}
	end, ok := h.dateParam(w, r, "end_date")
	if !ok {
		return nil, nil, false
	}
	return start, end, true
}

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}
	return &d, true
}
