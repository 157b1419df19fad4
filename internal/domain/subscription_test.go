package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newActiveSubscription(limit, used int) *Subscription {
	now := time.Now()
	return &Subscription{
		PlanTier:     PlanTierFree,
		StartDate:    now.Add(-24 * time.Hour),
		EndDate:      now.Add(13 * 24 * time.Hour),
		ReportsLimit: limit,
		ReportsUsed:  used,
		IsActive:     true,
	}
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name string
		sub  *Subscription
		want StatusKind
	}{
		{
			name: "no record",
			sub:  nil,
			want: StatusNoSubscription,
		},
		{
			name: "fresh free trial",
			sub: &Subscription{
				PlanTier:     PlanTierFree,
				StartDate:    now,
				EndDate:      now.Add(14 * 24 * time.Hour),
				ReportsLimit: 3,
				ReportsUsed:  0,
				IsActive:     true,
			},
			want: StatusActive,
		},
		{
			name: "limit reached",
			sub: &Subscription{
				PlanTier:     PlanTierBasic,
				StartDate:    now.Add(-10 * 24 * time.Hour),
				EndDate:      now.Add(20 * 24 * time.Hour),
				ReportsLimit: 10,
				ReportsUsed:  10,
				IsActive:     true,
			},
			want: StatusLimitReached,
		},
		{
			name: "expired window",
			sub: &Subscription{
				PlanTier:     PlanTierBasic,
				StartDate:    now.Add(-40 * 24 * time.Hour),
				EndDate:      now.Add(-10 * 24 * time.Hour),
				ReportsLimit: 10,
				ReportsUsed:  2,
				IsActive:     true,
			},
			want: StatusExpired,
		},
		{
			name: "expired wins over exhausted quota",
			sub: &Subscription{
				PlanTier:     PlanTierFree,
				StartDate:    now.Add(-30 * 24 * time.Hour),
				EndDate:      now.Add(-1 * 24 * time.Hour),
				ReportsLimit: 3,
				ReportsUsed:  3,
				IsActive:     true,
			},
			want: StatusExpired,
		},
		{
			name: "inactive record",
			sub: &Subscription{
				PlanTier:     PlanTierPro,
				StartDate:    now.Add(-1 * 24 * time.Hour),
				EndDate:      now.Add(29 * 24 * time.Hour),
				ReportsLimit: UnlimitedReportsSentinel,
				ReportsUsed:  0,
				IsActive:     false,
			},
			want: StatusExpired,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status := DeriveStatus(tc.sub, now)
			assert.Equal(t, tc.want, status.Kind)
		})
	}
}

func TestDeriveStatus_ActiveFields(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sub := &Subscription{
		PlanTier:     PlanTierBasic,
		StartDate:    now.Add(-5 * 24 * time.Hour),
		EndDate:      now.Add(25*24*time.Hour + time.Hour),
		ReportsLimit: 10,
		ReportsUsed:  4,
		IsActive:     true,
	}

	status := DeriveStatus(sub, now)

	assert.Equal(t, StatusActive, status.Kind)
	// Partial day remaining rounds up.
	assert.Equal(t, 26, status.DaysLeft)
	assert.Equal(t, 6, status.ReportsLeft)
	assert.False(t, status.Unlimited)
}

func TestDeriveStatus_UnlimitedPlan(t *testing.T) {
	now := time.Now()
	sub := &Subscription{
		PlanTier:     PlanTierPro,
		StartDate:    now,
		EndDate:      now.Add(30 * 24 * time.Hour),
		ReportsLimit: UnlimitedReportsSentinel,
		ReportsUsed:  12345,
		IsActive:     true,
	}

	status := DeriveStatus(sub, now)

	assert.Equal(t, StatusActive, status.Kind)
	assert.True(t, status.Unlimited)
}

func TestDeriveStatus_ExactEndDateStillActive(t *testing.T) {
	now := time.Now()
	sub := newActiveSubscription(3, 0)
	sub.EndDate = now

	// The subscription expires strictly after EndDate.
	status := DeriveStatus(sub, now)
	assert.Equal(t, StatusActive, status.Kind)
}

func TestCanCreateReport(t *testing.T) {
	now := time.Now()

	assert.False(t, CanCreateReport(nil, now))
	assert.True(t, CanCreateReport(newActiveSubscription(3, 2), now))
	assert.False(t, CanCreateReport(newActiveSubscription(3, 3), now))
}

func TestIneligibilityReason(t *testing.T) {
	testCases := []struct {
		name    string
		kind    StatusKind
		want    EligibilityReason
		blocked bool
	}{
		{"none maps to expired", StatusNoSubscription, ReasonExpired, true},
		{"expired", StatusExpired, ReasonExpired, true},
		{"limit reached", StatusLimitReached, ReasonLimit, true},
		{"active is not blocked", StatusActive, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reason, blocked := IneligibilityReason(SubscriptionStatus{Kind: tc.kind})
			assert.Equal(t, tc.blocked, blocked)
			assert.Equal(t, tc.want, reason)
		})
	}
}

func TestPlanCatalog(t *testing.T) {
	free := PlanTierFree.Spec()
	assert.Equal(t, 14*24*time.Hour, free.Duration)
	assert.Equal(t, 3, free.ReportsLimit)

	basic := PlanTierBasic.Spec()
	assert.Equal(t, 30*24*time.Hour, basic.Duration)
	assert.Equal(t, 10, basic.ReportsLimit)

	pro := PlanTierPro.Spec()
	assert.Equal(t, 30*24*time.Hour, pro.Duration)
	assert.Equal(t, UnlimitedReportsSentinel, pro.ReportsLimit)
}

func TestParsePlanTier(t *testing.T) {
	for _, raw := range []string{"free", "basic", "pro"} {
		tier, err := ParsePlanTier(raw)
		assert.NoError(t, err)
		assert.Equal(t, PlanTier(raw), tier)
	}

	_, err := ParsePlanTier("enterprise")
	assert.Error(t, err)

	_, err = ParsePlanTier("")
	assert.Error(t, err)
}

func TestReportsLeft_NeverNegative(t *testing.T) {
	// A downgrade can leave usage above the new limit.
	sub := newActiveSubscription(3, 7)
	assert.Equal(t, 0, sub.ReportsLeft())
}
