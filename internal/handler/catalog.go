// This file implements the static catalog endpoint the questionnaire UI is
// built from.
package handler

import (
	"net/http"

	"github.com/DukeRupert/kalkyl/internal/domain"
)

// CatalogHandler serves the feature catalog, technology options, and plan
// table. The payload is static; no authentication required.
type CatalogHandler struct{}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// planPayload is the wire shape of a plan catalog entry.
type planPayload struct {
	Plan         domain.PlanTier `json:"plan"`
	DurationDays int             `json:"durationDays"`
	ReportsLimit int             `json:"reportsLimit"`
	Unlimited    bool            `json:"unlimited"`
}

// Get handles GET /api/catalog.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	plans := make([]planPayload, 0, len(domain.PlanCatalog))
	for _, tier := range []domain.PlanTier{domain.PlanTierFree, domain.PlanTierBasic, domain.PlanTierPro} {
		spec := tier.Spec()
		plans = append(plans, planPayload{
			Plan:         tier,
			DurationDays: int(spec.Duration.Hours() / 24),
			ReportsLimit: spec.ReportsLimit,
			Unlimited:    spec.ReportsLimit >= domain.UnlimitedReportsSentinel,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"features": domain.FeatureCatalog,
		"technologies": map[string]any{
			"frontend":           domain.FrontendOptions,
			"backend":            domain.BackendOptions,
			"database":           domain.DatabaseOptions,
			"hosting":            domain.HostingOptions,
			"additionalServices": domain.AdditionalServiceOptions,
		},
		"plans": plans,
	})
}
