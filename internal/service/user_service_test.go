package service

import (
	"testing"
	"time"

	"echobreak_backend/internal/model"
)

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	sameDay := now.Add(-2 * time.Hour)
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -6)

	tests := []struct {
		name string
		user model.User
		want int
	}{
		{"first ever submission", model.User{}, 1},
		{"second submission same day", model.User{CurrentStreak: 3, LastSubmissionAt: &sameDay}, 3},
		{"same day with zero streak", model.User{CurrentStreak: 0, LastSubmissionAt: &sameDay}, 1},
		{"next day extends", model.User{CurrentStreak: 3, LastSubmissionAt: &yesterday}, 4},
		{"gap resets", model.User{CurrentStreak: 9, LastSubmissionAt: &lastWeek}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextStreak(&tt.user, now); got != tt.want {
				t.Errorf("NextStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNextStreakCrossesUTCMidnight(t *testing.T) {
	// 23:30 yesterday and 00:30 today are different UTC days.
	now := time.Date(2026, 8, 29, 0, 30, 0, 0, time.UTC)
	last := time.Date(2026, 8, 28, 23, 30, 0, 0, time.UTC)
	user := model.User{CurrentStreak: 2, LastSubmissionAt: &last}

	if got := NextStreak(&user, now); got != 3 {
		t.Errorf("NextStreak = %d, want 3 across midnight", got)
	}
}

func TestUpdateDeclaredLeanClamps(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}}
	users := newFakeUserStore(user)
	svc := NewUserService(users, nil)

	if err := svc.UpdateDeclaredLean(1, 7.5); err != nil {
		t.Fatalf("UpdateDeclaredLean: %v", err)
	}
	if user.PoliticalLean != 3 {
		t.Errorf("lean = %v, want clamped to 3", user.PoliticalLean)
	}

	if err := svc.UpdateDeclaredLean(1, -10); err != nil {
		t.Fatalf("UpdateDeclaredLean: %v", err)
	}
	if user.PoliticalLean != -3 {
		t.Errorf("lean = %v, want clamped to -3", user.PoliticalLean)
	}
}
