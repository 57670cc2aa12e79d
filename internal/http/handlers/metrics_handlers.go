package handlers

import (
	"net/http"
)

// GetCatalogMetricsHandler godoc
// @Summary Catalog metrics
// @Description Product counts per category, average price and where the cached catalog came from
// @Tags metrics
// @Produce json
// @Success 200 {object} catalog.Stats
// @Router /metrics/catalog [get]
func GetCatalogMetricsHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, catalogService.Stats(r.Context()))
}
