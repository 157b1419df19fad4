// Package pricing implements the deterministic cost estimation engine.
//
// This file implements the estimate calculation. The calculation is a pure
// function of its inputs: no I/O, no clock, no stored state.
package pricing

import (
	"math"

	"github.com/DukeRupert/kalkyl/internal/domain"
)

// Weights applied on top of the complexity table.
const (
	// StandardFeatureWeight is the complexity added per catalog feature.
	StandardFeatureWeight = 0.10

	// CustomFeatureWeight is the complexity added per custom feature.
	// Custom features imply undefined scope, so they weigh 50% more than
	// catalog features.
	CustomFeatureWeight = 0.15

	// AdditionalServiceWeight is the multiplier added per selected
	// additional service. The hosting choice itself does not affect cost.
	AdditionalServiceWeight = 0.05

	// RoundingUnit is the granularity of the final estimate.
	RoundingUnit = 1000
)

// Estimator computes cost estimates against an injected complexity table.
type Estimator struct {
	table ComplexityTable
}

// NewEstimator creates an Estimator using the given complexity table.
func NewEstimator(table ComplexityTable) *Estimator {
	return &Estimator{table: table}
}

// Estimate converts questionnaire answers and a rate configuration into a
// whole-currency estimate, rounded to the nearest RoundingUnit.
//
// durationMonths must be >= 1; that invariant is enforced by questionnaire
// validation and not re-checked here.
func (e *Estimator) Estimate(
	rates domain.RateConfiguration,
	team domain.TeamComposition,
	tech domain.TechnologySelection,
	features []string,
	customFeatures []string,
	durationMonths int,
) int64 {
	teamMonthlyCost := int64(team.Developers)*rates.DeveloperRate +
		int64(team.Designers)*rates.DesignerRate +
		int64(team.ProjectManagers)*rates.ProjectManagerRate +
		int64(team.QATesters)*rates.QATesterRate

	featureFactor := 1.0 +
		float64(len(features))*StandardFeatureWeight +
		float64(len(customFeatures))*CustomFeatureWeight

	techMultiplier := mean(e.table.Frontend, tech.Frontend) *
		mean(e.table.Backend, tech.Backend) *
		lookup(e.table.Database, tech.Database) *
		(1.0 + float64(len(tech.AdditionalServices))*AdditionalServiceWeight)

	raw := float64(teamMonthlyCost) * float64(durationMonths) * featureFactor * techMultiplier

	return roundToUnit(raw, RoundingUnit)
}

// EstimateSnapshot is a convenience wrapper over Estimate for a full
// questionnaire snapshot.
func (e *Estimator) EstimateSnapshot(rates domain.RateConfiguration, s *domain.QuestionnaireSnapshot) int64 {
	return e.Estimate(rates, s.Team, s.Technologies, s.Features, s.CustomFeatures, s.Timeline.DurationMonths)
}

// roundToUnit rounds half-up to the nearest multiple of unit.
func roundToUnit(raw float64, unit int64) int64 {
	return int64(math.Floor(raw/float64(unit)+0.5)) * unit
}
