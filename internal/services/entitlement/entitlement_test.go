package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

func TestResolve(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	trialStart := now.AddDate(0, 0, -3)
	trialEnd := now.AddDate(0, 0, 4)
	subEnd := now.AddDate(0, 1, 0)
	pastEnd := now.AddDate(0, 0, -1)

	tests := []struct {
		name               string
		user               *models.User
		latest             *models.Subscription
		wantStatus         string
		wantHasActivePass  bool
		wantTrialRemaining int
	}{
		{
			name:              "admin always active",
			user:              &models.User{UID: "u1", IsAdmin: true},
			latest:            nil,
			wantStatus:        StatusActive,
			wantHasActivePass: true,
		},
		{
			name: "admin active even with expired subscription",
			user: &models.User{UID: "u1", IsAdmin: true},
			latest: &models.Subscription{
				Status:  models.SubStatusActive,
				EndDate: &pastEnd,
			},
			wantStatus:        StatusActive,
			wantHasActivePass: true,
		},
		{
			name: "trial in progress",
			user: &models.User{
				UID:            "u1",
				TrialStartedAt: &trialStart,
				TrialEndsAt:    &trialEnd,
			},
			latest:             nil,
			wantStatus:         StatusTrial,
			wantHasActivePass:  true,
			wantTrialRemaining: 4,
		},
		{
			name: "active subscription with end date in future",
			user: &models.User{UID: "u1"},
			latest: &models.Subscription{
				Status:  models.SubStatusActive,
				EndDate: &subEnd,
			},
			wantStatus:        StatusActive,
			wantHasActivePass: true,
		},
		{
			name: "lifetime subscription without end date",
			user: &models.User{UID: "u1"},
			latest: &models.Subscription{
				Status:  models.SubStatusActive,
				EndDate: nil,
			},
			wantStatus:        StatusActive,
			wantHasActivePass: true,
		},
		{
			name: "expired subscription",
			user: &models.User{UID: "u1"},
			latest: &models.Subscription{
				Status:  models.SubStatusActive,
				EndDate: &pastEnd,
			},
			wantStatus:        StatusExpired,
			wantHasActivePass: false,
		},
		{
			name: "canceled subscription does not grant access",
			user: &models.User{UID: "u1"},
			latest: &models.Subscription{
				Status:  models.SubStatusCanceled,
				EndDate: &subEnd,
			},
			wantStatus:        StatusExpired,
			wantHasActivePass: false,
		},
		{
			name:              "no trial and no subscription",
			user:              &models.User{UID: "u1"},
			latest:            nil,
			wantStatus:        StatusExpired,
			wantHasActivePass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ent := Resolve(tt.user, tt.latest, now)
			assert.Equal(t, tt.wantStatus, ent.Status)
			assert.Equal(t, tt.wantHasActivePass, ent.HasActivePass)
			if tt.wantTrialRemaining > 0 {
				assert.Equal(t, tt.wantTrialRemaining, ent.TrialDaysRemaining)
			}
		})
	}
}

func TestResolve_TrialBoundary(t *testing.T) {
	trialStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	trialEnd := trialStart.AddDate(0, 0, 7)
	user := &models.User{
		UID:            "u1",
		TrialStartedAt: &trialStart,
		TrialEndsAt:    &trialEnd,
	}

	t.Run("one millisecond before trial end still grants access", func(t *testing.T) {
		ent := Resolve(user, nil, trialEnd.Add(-time.Millisecond))
		assert.Equal(t, StatusTrial, ent.Status)
		assert.True(t, ent.HasActivePass)
		assert.Equal(t, 1, ent.TrialDaysRemaining)
	})

	t.Run("exact trial end denies access", func(t *testing.T) {
		ent := Resolve(user, nil, trialEnd)
		assert.Equal(t, StatusExpired, ent.Status)
		assert.False(t, ent.HasActivePass)
	})

	t.Run("one millisecond after trial end denies access", func(t *testing.T) {
		ent := Resolve(user, nil, trialEnd.Add(time.Millisecond))
		assert.Equal(t, StatusExpired, ent.Status)
		assert.False(t, ent.HasActivePass)
	})
}

func TestResolve_SubscriptionBoundary(t *testing.T) {
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	user := &models.User{UID: "u1"}
	latest := &models.Subscription{
		Status:  models.SubStatusActive,
		EndDate: &end,
	}

	t.Run("before end date grants access", func(t *testing.T) {
		ent := Resolve(user, latest, end.Add(-time.Second))
		assert.True(t, ent.HasActivePass)
	})

	t.Run("at end date denies access", func(t *testing.T) {
		ent := Resolve(user, latest, end)
		assert.False(t, ent.HasActivePass)
	})
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		until time.Time
		want  int
	}{
		{"full day rounds to one", now.Add(24 * time.Hour), 1},
		{"partial day rounds up", now.Add(25 * time.Hour), 2},
		{"one millisecond rounds up to one", now.Add(time.Millisecond), 1},
		{"past time gives zero", now.Add(-time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysRemaining(tt.until, now))
		})
	}
}
