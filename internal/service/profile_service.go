package service

import (
	"time"

	"echobreak_backend/internal/model"
	"echobreak_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	// Lookback windows for the performance profile.
	profileWindowDays = 30
	recentWindowDays  = 14

	// Up to this many of the newest submission types feed the
	// anti-repetition factor.
	lastTypesTracked = 5

	streakBonusPerDay = 0.02
)

// ProfileService aggregates a user's recent history into a reusable
// PerformanceProfile. The profile is a pure function of the logs inside
// the lookback window and is recomputed on every call.
type ProfileService struct {
	Users       UserStore
	Submissions SubmissionStore
	Catalog     ChallengeCatalog
}

func NewProfileService(users UserStore, submissions SubmissionStore, catalog ChallengeCatalog) *ProfileService {
	return &ProfileService{
		Users:       users,
		Submissions: submissions,
		Catalog:     catalog,
	}
}

func (s *ProfileService) BuildProfile(userID uint) (*model.PerformanceProfile, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	submissions, err := s.Submissions.FindByUserSince(userID, now.AddDate(0, 0, -profileWindowDays))
	if err != nil {
		return nil, err
	}

	profile := &model.PerformanceProfile{
		UserID:                userID,
		TotalSubmissions:      len(submissions),
		TypePerformance:       make(map[model.ChallengeType]model.BucketStats),
		DifficultyPerformance: make(map[model.Difficulty]model.BucketStats),
		StreakMultiplier:      1 + float64(user.CurrentStreak)*streakBonusPerDay,
		BiasExposure:          make(map[string]int),
	}

	// Neutral prior for users without history, so new users are not
	// biased toward either difficulty extreme.
	profile.OverallSuccessRate = 0.5
	profile.RecentSuccessRate = 0.5

	if len(submissions) == 0 {
		return profile, nil
	}

	recentCutoff := now.AddDate(0, 0, -recentWindowDays)

	var correct, recentTotal, recentCorrect int
	typeAgg := make(map[model.ChallengeType]*bucketAccumulator)
	diffAgg := make(map[model.Difficulty]*bucketAccumulator)

	for _, sub := range submissions {
		if sub.IsCorrect {
			correct++
		}
		if sub.CreatedAt.After(recentCutoff) {
			recentTotal++
			if sub.IsCorrect {
				recentCorrect++
			}
		}

		ta := typeAgg[sub.Type]
		if ta == nil {
			ta = &bucketAccumulator{}
			typeAgg[sub.Type] = ta
		}
		ta.add(sub)

		da := diffAgg[sub.Difficulty]
		if da == nil {
			da = &bucketAccumulator{}
			diffAgg[sub.Difficulty] = da
		}
		da.add(sub)
	}

	profile.OverallSuccessRate = float64(correct) / float64(len(submissions))
	if recentTotal > 0 {
		profile.RecentSuccessRate = float64(recentCorrect) / float64(recentTotal)
	} else {
		profile.RecentSuccessRate = profile.OverallSuccessRate
	}

	for t, agg := range typeAgg {
		profile.TypePerformance[t] = agg.stats()
	}
	for d, agg := range diffAgg {
		profile.DifficultyPerformance[d] = agg.stats()
	}

	// Submissions arrive most recent first.
	for _, sub := range submissions {
		if len(profile.LastChallengeTypes) >= lastTypesTracked {
			break
		}
		profile.LastChallengeTypes = append(profile.LastChallengeTypes, sub.Type)
	}

	s.accumulateBiasExposure(profile, submissions)

	return profile, nil
}

// accumulateBiasExposure builds the exposure histogram from the bias
// articles embedded in the user's BIAS_SWAP challenges. Malformed content
// is logged and treated as no signal for that challenge.
func (s *ProfileService) accumulateBiasExposure(profile *model.PerformanceProfile, submissions []model.ChallengeSubmission) {
	var swapIDs []uint
	seen := make(map[uint]int)
	for _, sub := range submissions {
		if sub.Type != model.BiasSwap {
			continue
		}
		if _, ok := seen[sub.ChallengeID]; !ok {
			swapIDs = append(swapIDs, sub.ChallengeID)
		}
		seen[sub.ChallengeID]++
	}
	if len(swapIDs) == 0 {
		return
	}

	challenges, err := s.Catalog.FindByIDs(swapIDs)
	if err != nil {
		logger.Log.Warn("bias exposure lookup failed",
			zap.Uint("userId", profile.UserID), zap.Error(err))
		return
	}

	for i := range challenges {
		content, err := challenges[i].ParseContent()
		if err != nil {
			logger.Log.Warn("skipping malformed challenge content",
				zap.Uint("challengeId", challenges[i].ID), zap.Error(err))
			continue
		}
		// Each submission of the challenge counts as one exposure.
		weight := seen[challenges[i].ID]
		for _, article := range content.Articles {
			category := article.BiasCategory
			if category == "" {
				category = nearestBiasCategory(article.BiasRating)
			}
			profile.BiasExposure[category] += weight
		}
	}
}

func nearestBiasCategory(rating float64) string {
	switch {
	case rating <= -2.5:
		return model.BiasFarLeft
	case rating <= -1.5:
		return model.BiasLeft
	case rating <= -0.5:
		return model.BiasLeanLeft
	case rating < 0.5:
		return model.BiasCenter
	case rating < 1.5:
		return model.BiasLeanRight
	case rating < 2.5:
		return model.BiasRight
	default:
		return model.BiasFarRight
	}
}

type bucketAccumulator struct {
	total   int
	correct int
	seconds int
}

func (b *bucketAccumulator) add(sub model.ChallengeSubmission) {
	b.total++
	if sub.IsCorrect {
		b.correct++
	}
	b.seconds += sub.TimeSpentSeconds
}

func (b *bucketAccumulator) stats() model.BucketStats {
	return model.BucketStats{
		SuccessRate:    float64(b.correct) / float64(b.total),
		AvgTimeSeconds: float64(b.seconds) / float64(b.total),
		Count:          b.total,
	}
}
