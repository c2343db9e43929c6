package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"time"

	"echobreak_backend/internal/model"
	"echobreak_backend/internal/util"
	"echobreak_backend/pkg/logger"
	"echobreak_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// Challenges completed inside this window are excluded from selection.
	repeatWindowDays = 7

	// Weighted-random selection draws from this many top candidates.
	selectionPoolSize = 5

	dailyCacheTTL = 24 * time.Hour
)

// ChallengeService turns a scored candidate list into the user's daily
// challenge and batch recommendations, and records submissions.
type ChallengeService struct {
	Users       UserStore
	Submissions SubmissionStore
	Catalog     ChallengeCatalog
	Admin       ChallengeAdminStore
	Selections  SelectionStore
	Profiles    *ProfileService
	Scorer      *ChallengeScorer
	Redis       *redis.Client

	// Uniform draw in [0,1), replaceable in tests.
	randFn func() float64
}

func NewChallengeService(
	users UserStore,
	submissions SubmissionStore,
	catalog ChallengeCatalog,
	admin ChallengeAdminStore,
	selections SelectionStore,
	profiles *ProfileService,
	scorer *ChallengeScorer,
	rdb *redis.Client,
) *ChallengeService {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &ChallengeService{
		Users:       users,
		Submissions: submissions,
		Catalog:     catalog,
		Admin:       admin,
		Selections:  selections,
		Profiles:    profiles,
		Scorer:      scorer,
		Redis:       rdb,
		randFn:      rng.Float64,
	}
}

// GetTodayChallenge returns the user's challenge for the current UTC day.
// An existing DailyChallengeSelection short-circuits without rescoring;
// otherwise one is computed and persisted. A nil result with nil error
// means no eligible candidate exists.
func (s *ChallengeService) GetTodayChallenge(ctx context.Context, userID uint) (*model.ScoredChallenge, error) {
	date := time.Now().UTC().Format(util.DateFormat)

	if cached := s.cachedSelection(ctx, userID, date); cached != nil {
		return s.fromSelection(cached)
	}

	existing, err := s.Selections.FindByUserAndDate(userID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.cacheSelection(ctx, userID, existing)
		return s.fromSelection(existing)
	}

	picked, err := s.selectForUser(userID)
	if err != nil {
		return nil, err
	}
	if picked == nil {
		return nil, nil
	}

	selection := &model.DailyChallengeSelection{
		UserID:        userID,
		ChallengeID:   picked.Challenge.ID,
		SelectionDate: date,
		Reason:        strings.Join(picked.Reasons, "; "),
	}
	err = s.Selections.Create(selection)
	if err != nil {
		if errors.Is(err, util.ErrDuplicateSelection) {
			// Lost the race against a concurrent request for the same
			// day; the winning row is authoritative.
			winner, ferr := s.Selections.FindByUserAndDate(userID, date)
			if ferr != nil {
				return nil, ferr
			}
			if winner != nil {
				return s.fromSelection(winner)
			}
		}
		return nil, err
	}

	s.cacheSelection(ctx, userID, selection)
	monitoring.SelectionsServed.Inc()

	return picked, nil
}

func (s *ChallengeService) fromSelection(selection *model.DailyChallengeSelection) (*model.ScoredChallenge, error) {
	challenge, err := s.Catalog.FindByID(selection.ChallengeID)
	if err != nil {
		return nil, err
	}
	picked := &model.ScoredChallenge{Challenge: challenge}
	if selection.Reason != "" {
		picked.Reasons = strings.Split(selection.Reason, "; ")
	}
	return picked, nil
}

// GetRecommendations returns up to n distinct suggestions: ⌈1.5n⌉
// independent weighted draws de-duplicated by id, topped up with the
// next-highest-scored unused candidates when the draws fall short.
func (s *ChallengeService) GetRecommendations(userID uint, n int) ([]model.ScoredChallenge, error) {
	if n <= 0 {
		return nil, nil
	}

	scored, err := s.scoreCandidates(userID)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	picked := make([]model.ScoredChallenge, 0, n)
	used := make(map[uint]bool)

	for i := 0; i < ceilOversample(n) && len(picked) < n; i++ {
		candidate := s.weightedPick(scored)
		if candidate == nil {
			break
		}
		if !used[candidate.Challenge.ID] {
			used[candidate.Challenge.ID] = true
			picked = append(picked, *candidate)
		}
	}

	for _, sc := range scored {
		if len(picked) >= n {
			break
		}
		if !used[sc.Challenge.ID] {
			used[sc.Challenge.ID] = true
			picked = append(picked, sc)
		}
	}

	return picked, nil
}

// SubmitChallenge appends a submission record and rolls the user's daily
// streak forward.
func (s *ChallengeService) SubmitChallenge(userID, challengeID uint, isCorrect bool, timeSpentSeconds int) (*model.ChallengeSubmission, error) {
	challenge, err := s.Catalog.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if !challenge.IsActive {
		return nil, util.ErrChallengeInactive
	}

	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	submission := &model.ChallengeSubmission{
		UserID:           userID,
		ChallengeID:      challengeID,
		Type:             challenge.Type,
		Difficulty:       challenge.Difficulty,
		IsCorrect:        isCorrect,
		TimeSpentSeconds: timeSpentSeconds,
	}
	if err := s.Submissions.Create(submission); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.Users.UpdateStreak(userID, NextStreak(user, now), now); err != nil {
		// The submission is already durable; a failed streak write
		// should not fail the request.
		logger.Log.Error("streak update failed", zap.Uint("userId", userID), zap.Error(err))
	}

	return submission, nil
}

// CreateChallenge adds a catalog entry.
func (s *ChallengeService) CreateChallenge(challenge *model.Challenge) error {
	return s.Admin.Create(challenge)
}

// UpdateChallenge overwrites the mutable fields of an existing entry.
func (s *ChallengeService) UpdateChallenge(id uint, updated *model.Challenge) (*model.Challenge, error) {
	existing, err := s.Catalog.FindByID(id)
	if err != nil {
		return nil, err
	}

	existing.Type = updated.Type
	existing.Difficulty = updated.Difficulty
	existing.Title = updated.Title
	existing.Prompt = updated.Prompt
	existing.EstimatedTimeMinutes = updated.EstimatedTimeMinutes
	existing.IsActive = updated.IsActive
	if len(updated.Content) > 0 {
		existing.Content = updated.Content
	}

	if err := s.Admin.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteChallenge soft-deletes a catalog entry. Past submissions keep
// their copied type and difficulty, so history survives removal.
func (s *ChallengeService) DeleteChallenge(id uint) error {
	return s.Admin.Delete(id)
}

func (s *ChallengeService) selectForUser(userID uint) (*model.ScoredChallenge, error) {
	scored, err := s.scoreCandidates(userID)
	if err != nil {
		return nil, err
	}
	return s.weightedPick(scored), nil
}

func (s *ChallengeService) scoreCandidates(userID uint) ([]model.ScoredChallenge, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.Profiles.BuildProfile(userID)
	if err != nil {
		return nil, err
	}

	exclude, err := s.Submissions.CompletedChallengeIDs(userID, time.Now().UTC().AddDate(0, 0, -repeatWindowDays))
	if err != nil {
		return nil, err
	}

	candidates, err := s.Catalog.ListActive(exclude, "", "")
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	return s.Scorer.ScoreAll(user, profile, candidates), nil
}

// weightedPick draws among the top candidates proportionally to score:
// a uniform value in [0, Σ) is reduced by each score in order and the
// candidate that takes it non-positive wins. Floating-point exhaustion
// falls back to the top candidate.
func (s *ChallengeService) weightedPick(scored []model.ScoredChallenge) *model.ScoredChallenge {
	if len(scored) == 0 {
		return nil
	}

	pool := scored
	if len(pool) > selectionPoolSize {
		pool = pool[:selectionPoolSize]
	}

	var total float64
	for _, sc := range pool {
		total += sc.Score
	}
	if total <= 0 {
		return &pool[0]
	}

	draw := s.randFn() * total
	for i := range pool {
		draw -= pool[i].Score
		if draw <= 0 {
			return &pool[i]
		}
	}
	return &pool[0]
}

// cachedSelection reads today's selection from Redis, if present. Cache
// problems degrade to the database path.
func (s *ChallengeService) cachedSelection(ctx context.Context, userID uint, date string) *model.DailyChallengeSelection {
	if s.Redis == nil {
		return nil
	}
	raw, err := s.Redis.Get(ctx, dailySelectionKey(userID, date)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("daily selection cache read failed", zap.Uint("userId", userID), zap.Error(err))
		}
		return nil
	}

	var selection model.DailyChallengeSelection
	if err := json.Unmarshal([]byte(raw), &selection); err != nil {
		return nil
	}
	return &selection
}

func (s *ChallengeService) cacheSelection(ctx context.Context, userID uint, selection *model.DailyChallengeSelection) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(selection)
	if err != nil {
		return
	}
	key := dailySelectionKey(userID, selection.SelectionDate)
	if err := s.Redis.Set(ctx, key, raw, dailyCacheTTL).Err(); err != nil {
		logger.Log.Warn("daily selection cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func dailySelectionKey(userID uint, date string) string {
	return "echobreak:daily:" + date + ":" + util.FormatUint(userID)
}
