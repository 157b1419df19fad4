// Package domain contains core business types and interfaces.
//
// This file defines the Report: an immutable record of one questionnaire
// submission and its computed estimate.
package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is a persisted cost estimate. It embeds the questionnaire snapshot
// verbatim; once created it is never mutated.
type Report struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Snapshot      QuestionnaireSnapshot
	EstimatedCost int64
	CreatedAt     time.Time
}

// costPrinter formats amounts with US grouping, matching the dashboard's
// currency display.
var costPrinter = message.NewPrinter(language.AmericanEnglish)

// FormattedCost returns the estimate as a display string, e.g. "$175,000".
func (r *Report) FormattedCost() string {
	return FormatCost(r.EstimatedCost)
}

// FormatCost renders a whole-dollar amount with thousands separators.
func FormatCost(amount int64) string {
	return costPrinter.Sprintf("$%d", amount)
}
