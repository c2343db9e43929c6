package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"echobreak_backend/internal/model"
	"echobreak_backend/internal/util"
)

func newChallengeServiceForTest(users *fakeUserStore, subs *fakeSubmissionStore, catalog *fakeCatalog, selections *fakeSelectionStore) *ChallengeService {
	svc := NewChallengeService(
		users,
		subs,
		catalog,
		catalog,
		selections,
		NewProfileService(users, subs, catalog),
		NewChallengeScorer(),
		nil,
	)
	// Deterministic draws: always pick the top candidate.
	svc.randFn = func() float64 { return 0 }
	return svc
}

func TestGetTodayChallengeIsIdempotentPerDay(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	catalog := newFakeCatalog(
		&model.Challenge{BaseModel: model.BaseModel{ID: 1}, Type: model.LogicPuzzle, Difficulty: model.Beginner, IsActive: true},
		&model.Challenge{BaseModel: model.BaseModel{ID: 2}, Type: model.DataCheck, Difficulty: model.Advanced, IsActive: true},
	)
	selections := newFakeSelectionStore()
	svc := newChallengeServiceForTest(users, &fakeSubmissionStore{}, catalog, selections)

	first, err := svc.GetTodayChallenge(context.Background(), 1)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if first == nil {
		t.Fatal("first call returned no challenge")
	}

	// Force a different draw on the second call; the persisted selection
	// must still win.
	svc.randFn = func() float64 { return 0.999 }

	second, err := svc.GetTodayChallenge(context.Background(), 1)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second == nil || second.Challenge.ID != first.Challenge.ID {
		t.Errorf("second call picked challenge %v, want the persisted %d", second, first.Challenge.ID)
	}
	if len(selections.selections) != 1 {
		t.Errorf("persisted %d selections, want 1", len(selections.selections))
	}
}

func TestGetTodayChallengeNewUserGetsBeginner(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	catalog := newFakeCatalog(
		&model.Challenge{BaseModel: model.BaseModel{ID: 1}, Type: model.LogicPuzzle, Difficulty: model.Advanced, IsActive: true},
		&model.Challenge{BaseModel: model.BaseModel{ID: 2}, Type: model.LogicPuzzle, Difficulty: model.Beginner, IsActive: true},
	)
	svc := newChallengeServiceForTest(users, &fakeSubmissionStore{}, catalog, newFakeSelectionStore())

	picked, err := svc.GetTodayChallenge(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetTodayChallenge: %v", err)
	}
	if picked == nil {
		t.Fatal("no challenge for a brand-new user")
	}
	if picked.Challenge.Difficulty != model.Beginner {
		t.Errorf("new user got %s, want BEGINNER", picked.Challenge.Difficulty)
	}
}

func TestGetTodayChallengeNoCandidates(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	svc := newChallengeServiceForTest(users, &fakeSubmissionStore{}, newFakeCatalog(), newFakeSelectionStore())

	picked, err := svc.GetTodayChallenge(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetTodayChallenge: %v", err)
	}
	if picked != nil {
		t.Errorf("picked %v from an empty catalog, want nil", picked)
	}
}

func TestGetTodayChallengeExcludesRecentCompletions(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	catalog := newFakeCatalog(
		&model.Challenge{BaseModel: model.BaseModel{ID: 1}, Type: model.LogicPuzzle, Difficulty: model.Beginner, IsActive: true},
		&model.Challenge{BaseModel: model.BaseModel{ID: 2}, Type: model.DataCheck, Difficulty: model.Beginner, IsActive: true},
	)
	subs := &fakeSubmissionStore{}
	subs.submissions = append(subs.submissions, model.ChallengeSubmission{
		BaseModel:   model.BaseModel{ID: 1, CreatedAt: daysAgo(2)},
		UserID:      1,
		ChallengeID: 1,
		Type:        model.LogicPuzzle,
		Difficulty:  model.Beginner,
		IsCorrect:   true,
	})

	svc := newChallengeServiceForTest(users, subs, catalog, newFakeSelectionStore())
	picked, err := svc.GetTodayChallenge(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetTodayChallenge: %v", err)
	}
	if picked == nil || picked.Challenge.ID != 2 {
		t.Errorf("picked %v, want challenge 2 (1 completed 2 days ago)", picked)
	}
}

func TestGetTodayChallengeDuplicateRaceReadsBackWinner(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	catalog := newFakeCatalog(
		&model.Challenge{BaseModel: model.BaseModel{ID: 1}, Type: model.LogicPuzzle, Difficulty: model.Beginner, IsActive: true},
		&model.Challenge{BaseModel: model.BaseModel{ID: 2}, Type: model.DataCheck, Difficulty: model.Beginner, IsActive: true},
	)

	// A concurrent request already inserted challenge 2 for today, but the
	// first FindByUserAndDate in GetTodayChallenge missed it.
	selections := newFakeSelectionStore()
	date := time.Now().UTC().Format(util.DateFormat)
	winner := &model.DailyChallengeSelection{UserID: 1, ChallengeID: 2, SelectionDate: date}
	raced := &racingSelectionStore{inner: selections, winner: winner}

	svc := newChallengeServiceForTest(users, &fakeSubmissionStore{}, catalog, selections)
	svc.Selections = raced

	picked, err := svc.GetTodayChallenge(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetTodayChallenge: %v", err)
	}
	if picked == nil || picked.Challenge.ID != 2 {
		t.Errorf("picked %v, want the raced winner challenge 2", picked)
	}
}

// racingSelectionStore simulates losing an insert race: the first lookup
// misses, the insert hits the unique index, the re-read sees the winner.
type racingSelectionStore struct {
	inner  *fakeSelectionStore
	winner *model.DailyChallengeSelection
	looked bool
}

func (s *racingSelectionStore) Create(selection *model.DailyChallengeSelection) error {
	return util.ErrDuplicateSelection
}

func (s *racingSelectionStore) FindByUserAndDate(userID uint, date string) (*model.DailyChallengeSelection, error) {
	if !s.looked {
		s.looked = true
		return nil, nil
	}
	return s.winner, nil
}

func TestGetRecommendationsReturnsDistinctChallenges(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	catalog := newFakeCatalog()
	types := []model.ChallengeType{model.BiasSwap, model.LogicPuzzle, model.CounterArgument, model.DataCheck, model.Synthesis}
	for i, typ := range types {
		catalog.challenges[uint(i+1)] = &model.Challenge{
			BaseModel:  model.BaseModel{ID: uint(i + 1)},
			Type:       typ,
			Difficulty: model.Beginner,
			IsActive:   true,
		}
	}

	svc := newChallengeServiceForTest(users, &fakeSubmissionStore{}, catalog, newFakeSelectionStore())

	recs, err := svc.GetRecommendations(1, 3)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}

	seen := make(map[uint]bool)
	for _, rec := range recs {
		if seen[rec.Challenge.ID] {
			t.Errorf("challenge %d recommended twice", rec.Challenge.ID)
		}
		seen[rec.Challenge.ID] = true
	}
}

func TestGetRecommendationsCappedByCatalog(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	catalog := newFakeCatalog(
		&model.Challenge{BaseModel: model.BaseModel{ID: 1}, Type: model.LogicPuzzle, Difficulty: model.Beginner, IsActive: true},
	)
	svc := newChallengeServiceForTest(users, &fakeSubmissionStore{}, catalog, newFakeSelectionStore())

	recs, err := svc.GetRecommendations(1, 5)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("got %d recommendations from a 1-challenge catalog, want 1", len(recs))
	}
}

func TestSubmitChallengeExtendsStreak(t *testing.T) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	user := &model.User{
		BaseModel:        model.BaseModel{ID: 1},
		CurrentStreak:    3,
		LastSubmissionAt: &yesterday,
	}
	users := newFakeUserStore(user)
	catalog := newFakeCatalog(
		&model.Challenge{BaseModel: model.BaseModel{ID: 1}, Type: model.LogicPuzzle, Difficulty: model.Beginner, IsActive: true},
	)
	subs := &fakeSubmissionStore{}
	svc := newChallengeServiceForTest(users, subs, catalog, newFakeSelectionStore())

	submission, err := svc.SubmitChallenge(1, 1, true, 42)
	if err != nil {
		t.Fatalf("SubmitChallenge: %v", err)
	}

	if submission.Type != model.LogicPuzzle || submission.Difficulty != model.Beginner {
		t.Errorf("submission copied %s/%s, want challenge's type and difficulty", submission.Type, submission.Difficulty)
	}
	if len(subs.submissions) != 1 {
		t.Fatalf("stored %d submissions, want 1", len(subs.submissions))
	}
	if user.CurrentStreak != 4 {
		t.Errorf("streak = %d, want 4 after a next-day submission", user.CurrentStreak)
	}
}

func TestSubmitChallengeRejectsInactive(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	catalog := newFakeCatalog(
		&model.Challenge{BaseModel: model.BaseModel{ID: 1}, Type: model.LogicPuzzle, IsActive: false},
	)
	svc := newChallengeServiceForTest(users, &fakeSubmissionStore{}, catalog, newFakeSelectionStore())

	if _, err := svc.SubmitChallenge(1, 1, true, 10); !errors.Is(err, util.ErrChallengeInactive) {
		t.Errorf("err = %v, want ErrChallengeInactive", err)
	}
}

func TestSubmitChallengeUnknownChallenge(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	svc := newChallengeServiceForTest(users, &fakeSubmissionStore{}, newFakeCatalog(), newFakeSelectionStore())

	if _, err := svc.SubmitChallenge(1, 99, true, 10); !errors.Is(err, util.ErrChallengeNotFound) {
		t.Errorf("err = %v, want ErrChallengeNotFound", err)
	}
}

func TestWeightedPickFavorsHigherScores(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	svc := newChallengeServiceForTest(users, &fakeSubmissionStore{}, newFakeCatalog(), newFakeSelectionStore())

	a := model.Challenge{BaseModel: model.BaseModel{ID: 1}}
	b := model.Challenge{BaseModel: model.BaseModel{ID: 2}}
	scored := []model.ScoredChallenge{
		{Challenge: &a, Score: 75},
		{Challenge: &b, Score: 25},
	}

	// A draw of 0.74 lands inside the first band, 0.76 inside the second.
	svc.randFn = func() float64 { return 0.74 }
	if picked := svc.weightedPick(scored); picked.Challenge.ID != 1 {
		t.Errorf("draw 0.74 picked %d, want 1", picked.Challenge.ID)
	}
	svc.randFn = func() float64 { return 0.76 }
	if picked := svc.weightedPick(scored); picked.Challenge.ID != 2 {
		t.Errorf("draw 0.76 picked %d, want 2", picked.Challenge.ID)
	}
}

func TestUpdateChallengePreservesContentWhenOmitted(t *testing.T) {
	users := newFakeUserStore(&model.User{BaseModel: model.BaseModel{ID: 1}})
	catalog := newFakeCatalog(&model.Challenge{
		BaseModel: model.BaseModel{ID: 1},
		Type:      model.BiasSwap,
		Title:     "before",
		Content:   []byte(`{"articles":[]}`),
		IsActive:  true,
	})
	svc := newChallengeServiceForTest(users, &fakeSubmissionStore{}, catalog, newFakeSelectionStore())

	updated, err := svc.UpdateChallenge(1, &model.Challenge{
		Type:       model.BiasSwap,
		Difficulty: model.Advanced,
		Title:      "after",
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("UpdateChallenge: %v", err)
	}
	if updated.Title != "after" || updated.Difficulty != model.Advanced {
		t.Errorf("update not applied: %+v", updated)
	}
	if len(updated.Content) == 0 {
		t.Error("existing content dropped by an update without content")
	}
}
