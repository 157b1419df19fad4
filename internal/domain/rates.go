// Package domain contains core business types and interfaces.
//
// This file defines the per-user cost rate configuration used by the
// estimator. Rates are monthly, in whole currency units.
package domain

// RateConfiguration holds the monthly rate for each project role.
//
// A user without a stored configuration gets DefaultRates. Updates replace the
// whole object; partial updates are not supported.
type RateConfiguration struct {
	DeveloperRate      int64 `json:"developerRate"`
	DesignerRate       int64 `json:"designerRate"`
	ProjectManagerRate int64 `json:"projectManagerRate"`
	QATesterRate       int64 `json:"qaTesterRate"`
}

// DefaultRates returns the process-wide default rate configuration.
//
// This is the single source of truth for defaults; no other layer may repeat
// these literals.
func DefaultRates() RateConfiguration {
	return RateConfiguration{
		DeveloperRate:      8000,
		DesignerRate:       7000,
		ProjectManagerRate: 9000,
		QATesterRate:       6000,
	}
}

// Validate checks that every rate is a positive amount.
func (r RateConfiguration) Validate() error {
	const op = "RateConfiguration.Validate"

	fields := make(map[string]string)
	if r.DeveloperRate <= 0 {
		fields["developerRate"] = "Developer rate must be a positive amount"
	}
	if r.DesignerRate <= 0 {
		fields["designerRate"] = "Designer rate must be a positive amount"
	}
	if r.ProjectManagerRate <= 0 {
		fields["projectManagerRate"] = "Project manager rate must be a positive amount"
	}
	if r.QATesterRate <= 0 {
		fields["qaTesterRate"] = "QA tester rate must be a positive amount"
	}
	if len(fields) > 0 {
		return &ValidationError{Op: op, Fields: fields}
	}
	return nil
}
