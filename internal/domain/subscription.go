// Package domain contains core business types and interfaces.
//
// This file defines the Subscription record and the single derivation of its
// presentation/enforcement status. Only the raw fields are stored; everything
// else (expired, limit reached, days left) is computed from them.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is the per-user plan record.
//
// ReportsUsed is preserved across plan changes, so a downgrade after heavy
// usage can immediately place the account at or over the new limit.
type Subscription struct {
	UserID       uuid.UUID
	PlanTier     PlanTier
	StartDate    time.Time
	EndDate      time.Time
	ReportsLimit int
	ReportsUsed  int
	IsActive     bool
	UpdatedAt    time.Time
}

// IsUnlimited returns true when the stored limit is the unlimited sentinel.
func (s *Subscription) IsUnlimited() bool {
	return s.ReportsLimit >= UnlimitedReportsSentinel
}

// ReportsLeft returns the remaining report quota, never negative.
func (s *Subscription) ReportsLeft() int {
	left := s.ReportsLimit - s.ReportsUsed
	if left < 0 {
		return 0
	}
	return left
}

// StatusKind enumerates the derived subscription states.
type StatusKind string

const (
	StatusNoSubscription StatusKind = "none"
	StatusActive         StatusKind = "active"
	StatusExpired        StatusKind = "expired"
	StatusLimitReached   StatusKind = "limit_reached"
)

// SubscriptionStatus is the derived view of a subscription at a point in time.
// Every layer that displays or enforces subscription state consumes this one
// derivation instead of recomputing it.
type SubscriptionStatus struct {
	Kind        StatusKind
	DaysLeft    int  // Days until EndDate; zero unless Kind == StatusActive
	ReportsLeft int  // Remaining quota; zero unless Kind == StatusActive
	Unlimited   bool // True for plans using the unlimited sentinel
}

// DeriveStatus computes the subscription status at the given time.
//
// An inactive record is treated as expired: both states require the user to
// select a plan again, and the original flow surfaced them identically.
// The expiry check precedes the quota check, so an expired subscription
// reports expired regardless of usage.
func DeriveStatus(sub *Subscription, now time.Time) SubscriptionStatus {
	if sub == nil {
		return SubscriptionStatus{Kind: StatusNoSubscription}
	}
	if !sub.IsActive || now.After(sub.EndDate) {
		return SubscriptionStatus{Kind: StatusExpired}
	}
	if sub.ReportsUsed >= sub.ReportsLimit {
		return SubscriptionStatus{Kind: StatusLimitReached}
	}

	// Ceiling of the remaining window, matching the dashboard's "days left".
	remaining := sub.EndDate.Sub(now)
	daysLeft := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		daysLeft++
	}

	return SubscriptionStatus{
		Kind:        StatusActive,
		DaysLeft:    daysLeft,
		ReportsLeft: sub.ReportsLeft(),
		Unlimited:   sub.IsUnlimited(),
	}
}

// CanCreateReport reports whether a new report may be generated at the given
// time. It is the enforcement view of DeriveStatus.
func CanCreateReport(sub *Subscription, now time.Time) bool {
	return DeriveStatus(sub, now).Kind == StatusActive
}

// IneligibilityReason maps a non-active status to the reason code surfaced to
// callers. Returns false for an active status.
func IneligibilityReason(status SubscriptionStatus) (EligibilityReason, bool) {
	switch status.Kind {
	case StatusNoSubscription, StatusExpired:
		return ReasonExpired, true
	case StatusLimitReached:
		return ReasonLimit, true
	default:
		return "", false
	}
}
