// Package domain contains core business types and interfaces.
//
// This file defines the subscription plan catalog. The catalog is static
// configuration, not persisted state.
package domain

import (
	"fmt"
	"time"
)

// PlanTier identifies a subscription plan.
type PlanTier string

const (
	PlanTierFree  PlanTier = "free"
	PlanTierBasic PlanTier = "basic"
	PlanTierPro   PlanTier = "pro"
)

// UnlimitedReportsSentinel is the reports limit stored for plans with no
// practical cap. Using a large sentinel keeps the eligibility check free of a
// special-case branch for unlimited plans.
const UnlimitedReportsSentinel = 1_000_000

// PlanSpec defines the validity window and report quota of a plan.
type PlanSpec struct {
	Duration     time.Duration
	ReportsLimit int
}

// PlanCatalog maps each tier to its validity window and quota.
var PlanCatalog = map[PlanTier]PlanSpec{
	PlanTierFree:  {Duration: 14 * 24 * time.Hour, ReportsLimit: 3},
	PlanTierBasic: {Duration: 30 * 24 * time.Hour, ReportsLimit: 10},
	PlanTierPro:   {Duration: 30 * 24 * time.Hour, ReportsLimit: UnlimitedReportsSentinel},
}

// ParsePlanTier validates a raw plan string against the catalog.
func ParsePlanTier(raw string) (PlanTier, error) {
	tier := PlanTier(raw)
	if _, ok := PlanCatalog[tier]; !ok {
		return "", fmt.Errorf("unknown plan tier %q", raw)
	}
	return tier, nil
}

// Spec returns the catalog entry for the tier, defaulting to the free plan
// for unknown tiers.
func (t PlanTier) Spec() PlanSpec {
	if spec, ok := PlanCatalog[t]; ok {
		return spec
	}
	return PlanCatalog[PlanTierFree]
}

// IsPaid returns true for tiers above the free trial.
func (t PlanTier) IsPaid() bool {
	return t == PlanTierBasic || t == PlanTierPro
}
