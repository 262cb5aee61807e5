package types

import (
	"net/http"

	"github.com/razao-erp/razao-erp/internal/platform/httpx"
)

// Handler serves the read-only catalog endpoint.
type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.catalog.All())
}
