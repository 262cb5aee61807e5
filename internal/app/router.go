package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/razao-erp/razao-erp/internal/accounting/accounts"
	"github.com/razao-erp/razao-erp/internal/accounting/costcenters"
	"github.com/razao-erp/razao-erp/internal/accounting/journals"
	"github.com/razao-erp/razao-erp/internal/accounting/periods"
	"github.com/razao-erp/razao-erp/internal/accounting/reports"
	"github.com/razao-erp/razao-erp/internal/accounting/types"
	"github.com/razao-erp/razao-erp/internal/auth"
	"github.com/razao-erp/razao-erp/internal/masterdata/companies"
	"github.com/razao-erp/razao-erp/internal/observability"
	"github.com/razao-erp/razao-erp/internal/rbac"
	"github.com/razao-erp/razao-erp/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	TokenManager       *shared.TokenManager
	AuthHandler        *auth.Handler
	CompaniesHandler   *companies.Handler
	TypesHandler       *types.Handler
	AccountsHandler    *accounts.Handler
	CostCentersHandler *costcenters.Handler
	PeriodsHandler     *periods.Handler
	JournalsHandler    *journals.Handler
	ReportsHandler     *reports.Handler
	RBACMiddleware     rbac.Middleware
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with the full API surface.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:       params.Logger,
		Config:       params.Config,
		TokenManager: params.TokenManager,
		Metrics:      params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	params.AuthHandler.MountRoutes(r)

	view := params.RBACMiddleware.RequireAny(rbac.PermAccountingView, rbac.PermAccountingManage, rbac.PermAccountingPost)
	manage := params.RBACMiddleware.RequireAny(rbac.PermAccountingManage)
	post := params.RBACMiddleware.RequireAny(rbac.PermAccountingPost)
	masterdata := params.RBACMiddleware.RequireAny(rbac.PermMasterdataManage)

	r.With(view).Get("/account-types", params.TypesHandler.List)

	r.Route("/companies", func(r chi.Router) {
		r.With(view).Get("/", params.CompaniesHandler.List)
		r.With(masterdata).Post("/", params.CompaniesHandler.Create)
		r.Route("/{companyID}", func(r chi.Router) {
			r.With(view).Get("/", params.CompaniesHandler.Get)
			r.With(masterdata).Put("/", params.CompaniesHandler.Update)

			r.Route("/accounts", func(r chi.Router) {
				r.With(view).Get("/", params.AccountsHandler.List)
				r.With(manage).Post("/", params.AccountsHandler.Create)
			})
			r.Route("/cost-centers", func(r chi.Router) {
				r.With(view).Get("/", params.CostCentersHandler.List)
				r.With(manage).Post("/", params.CostCentersHandler.Create)
			})
			r.Route("/fiscal-periods", func(r chi.Router) {
				r.With(view).Get("/", params.PeriodsHandler.List)
				r.With(manage).Post("/", params.PeriodsHandler.Open)
			})
			r.Route("/journal-entries", func(r chi.Router) {
				r.With(view).Get("/", params.JournalsHandler.List)
				r.With(manage).Post("/", params.JournalsHandler.Create)
			})
			r.With(view).Get("/trial-balance", params.ReportsHandler.TrialBalance)
			r.With(view).Get("/trial-balance/export", params.ReportsHandler.ExportTrialBalance)
			r.With(view).Get("/balance-sheet", params.ReportsHandler.BalanceSheet)
		})
	})

	r.Route("/accounts/{accountID}", func(r chi.Router) {
		r.With(manage).Put("/", params.AccountsHandler.Update)
		r.With(view).Get("/balance", params.ReportsHandler.AccountBalance)
	})
	r.With(manage).Put("/cost-centers/{costCenterID}", params.CostCentersHandler.Update)

	r.Route("/fiscal-periods/{periodID}", func(r chi.Router) {
		r.With(manage).Post("/close", params.PeriodsHandler.Close)
		r.With(manage).Post("/reopen", params.PeriodsHandler.Reopen)
	})

	r.Route("/journal-entries/{entryID}", func(r chi.Router) {
		r.With(view).Get("/", params.JournalsHandler.Get)
		r.With(post).Post("/post", params.JournalsHandler.Post)
		r.With(post).Post("/cancel", params.JournalsHandler.Cancel)
		r.With(manage).Delete("/", params.JournalsHandler.Discard)
	})

	return r
}
