package service

import (
	"math"
	"testing"

	"echobreak_backend/internal/model"
)

func floatsClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildProfileEmptyHistory(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}, CurrentStreak: 5})
	svc := NewProfileService(users, &fakeSubmissionStore{}, newFakeCatalog())

	profile, err := svc.BuildProfile(1)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}

	if profile.TotalSubmissions != 0 {
		t.Errorf("TotalSubmissions = %d, want 0", profile.TotalSubmissions)
	}
	if !floatsClose(profile.OverallSuccessRate, 0.5) {
		t.Errorf("OverallSuccessRate = %v, want neutral 0.5", profile.OverallSuccessRate)
	}
	if !floatsClose(profile.RecentSuccessRate, 0.5) {
		t.Errorf("RecentSuccessRate = %v, want neutral 0.5", profile.RecentSuccessRate)
	}
	if !floatsClose(profile.StreakMultiplier, 1.10) {
		t.Errorf("StreakMultiplier = %v, want 1.10 for a 5-day streak", profile.StreakMultiplier)
	}
	if len(profile.LastChallengeTypes) != 0 {
		t.Errorf("LastChallengeTypes = %v, want empty", profile.LastChallengeTypes)
	}
}

func TestBuildProfileAggregates(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	subs := &fakeSubmissionStore{}

	// Two old submissions (one correct) and two recent (both correct).
	add := func(age int, typ model.ChallengeType, diff model.Difficulty, correct bool, secs int) {
		subs.submissions = append(subs.submissions, model.ChallengeSubmission{
			BaseModel:        model.BaseModel{ID: uint(len(subs.submissions) + 1), CreatedAt: daysAgo(age)},
			UserID:           1,
			ChallengeID:      uint(100 + len(subs.submissions)),
			Type:             typ,
			Difficulty:       diff,
			IsCorrect:        correct,
			TimeSpentSeconds: secs,
		})
	}
	add(20, model.LogicPuzzle, model.Beginner, true, 60)
	add(20, model.LogicPuzzle, model.Beginner, false, 120)
	add(1, model.DataCheck, model.Intermediate, true, 30)
	add(2, model.Synthesis, model.Intermediate, true, 90)

	svc := NewProfileService(users, subs, newFakeCatalog())
	profile, err := svc.BuildProfile(1)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}

	if profile.TotalSubmissions != 4 {
		t.Fatalf("TotalSubmissions = %d, want 4", profile.TotalSubmissions)
	}
	if !floatsClose(profile.OverallSuccessRate, 0.75) {
		t.Errorf("OverallSuccessRate = %v, want 0.75", profile.OverallSuccessRate)
	}
	if !floatsClose(profile.RecentSuccessRate, 1.0) {
		t.Errorf("RecentSuccessRate = %v, want 1.0", profile.RecentSuccessRate)
	}

	lp := profile.TypePerformance[model.LogicPuzzle]
	if lp.Count != 2 || !floatsClose(lp.SuccessRate, 0.5) || !floatsClose(lp.AvgTimeSeconds, 90) {
		t.Errorf("LogicPuzzle bucket = %+v, want count 2, rate 0.5, avg 90s", lp)
	}

	inter := profile.DifficultyPerformance[model.Intermediate]
	if inter.Count != 2 || !floatsClose(inter.SuccessRate, 1.0) {
		t.Errorf("Intermediate bucket = %+v, want count 2, rate 1.0", inter)
	}

	// Most recent first.
	wantOrder := []model.ChallengeType{model.DataCheck, model.Synthesis, model.LogicPuzzle, model.LogicPuzzle}
	if len(profile.LastChallengeTypes) != len(wantOrder) {
		t.Fatalf("LastChallengeTypes = %v, want %v", profile.LastChallengeTypes, wantOrder)
	}
	for i, typ := range wantOrder {
		if profile.LastChallengeTypes[i] != typ {
			t.Errorf("LastChallengeTypes[%d] = %s, want %s", i, profile.LastChallengeTypes[i], typ)
		}
	}
}

func TestBuildProfileTracksAtMostFiveRecentTypes(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	subs := &fakeSubmissionStore{}
	for i := 0; i < 8; i++ {
		subs.submissions = append(subs.submissions, model.ChallengeSubmission{
			BaseModel:   model.BaseModel{ID: uint(i + 1), CreatedAt: daysAgo(i + 1)},
			UserID:      1,
			ChallengeID: uint(i + 1),
			Type:        model.LogicPuzzle,
			Difficulty:  model.Beginner,
		})
	}

	svc := NewProfileService(users, subs, newFakeCatalog())
	profile, err := svc.BuildProfile(1)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	if len(profile.LastChallengeTypes) != 5 {
		t.Errorf("tracked %d recent types, want 5", len(profile.LastChallengeTypes))
	}
}

func TestBuildProfileBiasExposure(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})

	swap := &model.Challenge{
		BaseModel: model.BaseModel{ID: 10},
		Type:      model.BiasSwap,
		Content:   []byte(`{"articles":[{"biasCategory":"LEFT","biasRating":-2},{"biasCategory":"RIGHT","biasRating":2}]}`),
		IsActive:  true,
	}
	unrated := &model.Challenge{
		BaseModel: model.BaseModel{ID: 11},
		Type:      model.BiasSwap,
		Content:   []byte(`{"articles":[{"biasRating":0.2}]}`),
		IsActive:  true,
	}
	malformed := &model.Challenge{
		BaseModel: model.BaseModel{ID: 12},
		Type:      model.BiasSwap,
		Content:   []byte(`{"articles":`),
		IsActive:  true,
	}

	subs := &fakeSubmissionStore{}
	addSwap := func(id uint, challengeID uint) {
		subs.submissions = append(subs.submissions, model.ChallengeSubmission{
			BaseModel:   model.BaseModel{ID: id, CreatedAt: daysAgo(1)},
			UserID:      1,
			ChallengeID: challengeID,
			Type:        model.BiasSwap,
		})
	}
	// The repeated challenge counts twice.
	addSwap(1, 10)
	addSwap(2, 10)
	addSwap(3, 11)
	addSwap(4, 12)

	svc := NewProfileService(users, subs, newFakeCatalog(swap, unrated, malformed))
	profile, err := svc.BuildProfile(1)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}

	if got := profile.BiasExposure[model.BiasLeft]; got != 2 {
		t.Errorf("LEFT exposure = %d, want 2", got)
	}
	if got := profile.BiasExposure[model.BiasRight]; got != 2 {
		t.Errorf("RIGHT exposure = %d, want 2", got)
	}
	// Unrated article falls back to the nearest category by rating.
	if got := profile.BiasExposure[model.BiasCenter]; got != 1 {
		t.Errorf("CENTER exposure = %d, want 1", got)
	}
	if profile.TotalBiasExposure() != 5 {
		t.Errorf("TotalBiasExposure = %d, want 5 (malformed challenge ignored)", profile.TotalBiasExposure())
	}
}

func TestNearestBiasCategory(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
	}{
		{-3, model.BiasFarLeft},
		{-2, model.BiasLeft},
		{-1, model.BiasLeanLeft},
		{0, model.BiasCenter},
		{1, model.BiasLeanRight},
		{2, model.BiasRight},
		{3, model.BiasFarRight},
	}
	for _, tt := range tests {
		if got := nearestBiasCategory(tt.rating); got != tt.want {
			t.Errorf("nearestBiasCategory(%v) = %s, want %s", tt.rating, got, tt.want)
		}
	}
}
