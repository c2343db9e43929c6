package service

import (
	"fmt"
	"math"
	"sort"

	"echobreak_backend/internal/model"
	"echobreak_backend/pkg/logger"

	"go.uber.org/zap"
)

// Factor blend weights. Each factor f in [0,1] enters the product as
// f*weight + (1-weight), so a weight of 0.3 lets the factor move the
// score by at most 30%.
const (
	difficultyWeight = 0.3
	weaknessWeight   = 0.25
	biasWeight       = 0.3
	diversityWeight  = 0.2

	underexposedShare = 0.15
	baseScore         = 100.0
)

// ChallengeScorer scores candidates against a performance profile using
// six multiplicative factors. It holds no state and is safe for
// concurrent use.
type ChallengeScorer struct{}

func NewChallengeScorer() *ChallengeScorer {
	return &ChallengeScorer{}
}

// ScoreAll scores every candidate and returns them sorted by descending
// score, ties broken by id for determinism.
func (cs *ChallengeScorer) ScoreAll(user *model.User, profile *model.PerformanceProfile, candidates []model.Challenge) []model.ScoredChallenge {
	scored := make([]model.ScoredChallenge, 0, len(candidates))
	for i := range candidates {
		scored = append(scored, cs.score(user, profile, &candidates[i]))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Challenge.ID < scored[j].Challenge.ID
	})
	return scored
}

func (cs *ChallengeScorer) score(user *model.User, profile *model.PerformanceProfile, challenge *model.Challenge) model.ScoredChallenge {
	result := model.ScoredChallenge{Challenge: challenge, Score: baseScore}

	cs.applyDifficultyFit(&result, profile)
	cs.applyWeaknessFocus(&result, profile)
	cs.applyBiasDiversity(&result, user, profile)
	cs.applyTypeDiversity(&result, profile)
	cs.applyStreakBonus(&result, profile)
	cs.applyTimeFit(&result, profile)

	return result
}

// TargetDifficulty derives the difficulty the user should be practicing
// at: escalate when the recent success rate is high, back off when it is
// low, and start new users at the bottom.
func (cs *ChallengeScorer) TargetDifficulty(profile *model.PerformanceProfile) model.Difficulty {
	if profile.TotalSubmissions == 0 {
		return model.Beginner
	}
	switch {
	case profile.RecentSuccessRate >= 0.85:
		return model.Advanced
	case profile.RecentSuccessRate <= 0.40:
		return model.Beginner
	default:
		return model.Intermediate
	}
}

func (cs *ChallengeScorer) applyDifficultyFit(result *model.ScoredChallenge, profile *model.PerformanceProfile) {
	target := cs.TargetDifficulty(profile)
	distance := model.DifficultyRank(result.Challenge.Difficulty) - model.DifficultyRank(target)
	if distance < 0 {
		distance = -distance
	}

	factor := 0.3
	switch distance {
	case 0:
		factor = 1.0
		result.Reasons = append(result.Reasons, fmt.Sprintf("difficulty matches target %s", target))
	case 1:
		factor = 0.7
	}

	result.Score *= factor*difficultyWeight + (1 - difficultyWeight)
}

func (cs *ChallengeScorer) applyWeaknessFocus(result *model.ScoredChallenge, profile *model.PerformanceProfile) {
	stats, seen := profile.TypePerformance[result.Challenge.Type]

	var factor float64
	switch {
	case !seen:
		factor = 0.6
		result.Reasons = append(result.Reasons, fmt.Sprintf("unexplored challenge type %s", result.Challenge.Type))
	case stats.SuccessRate < 0.4:
		factor = 1.0
		result.Reasons = append(result.Reasons, fmt.Sprintf("targets weak area %s (%.0f%% success)", result.Challenge.Type, stats.SuccessRate*100))
	case stats.SuccessRate < 0.6:
		factor = 0.8
	case stats.SuccessRate < 0.8:
		factor = 0.5
	default:
		factor = 0.3
	}

	result.Score *= factor*weaknessWeight + (1 - weaknessWeight)
}

func (cs *ChallengeScorer) applyBiasDiversity(result *model.ScoredChallenge, user *model.User, profile *model.PerformanceProfile) {
	if result.Challenge.Type != model.BiasSwap {
		return
	}
	totalExposure := profile.TotalBiasExposure()
	if totalExposure == 0 {
		return
	}

	content, err := result.Challenge.ParseContent()
	if err != nil {
		logger.Log.Warn("skipping bias factor for malformed content",
			zap.Uint("challengeId", result.Challenge.ID), zap.Error(err))
		return
	}
	if len(content.Articles) == 0 {
		return
	}

	factor := 0.5
	opposing := false
	// The underexposure bonus is per distinct category, not per article.
	counted := make(map[string]bool)
	for _, article := range content.Articles {
		category := article.BiasCategory
		if category == "" {
			category = nearestBiasCategory(article.BiasRating)
		}
		if !counted[category] {
			counted[category] = true
			share := float64(profile.BiasExposure[category]) / float64(totalExposure)
			if share < underexposedShare {
				factor += 0.2
				result.Reasons = append(result.Reasons, fmt.Sprintf("exposes underrepresented perspective %s", category))
			}
		}
		if article.BiasRating*user.PoliticalLean < 0 {
			opposing = true
		}
	}
	if opposing {
		factor += 0.3
		result.Reasons = append(result.Reasons, "challenges your declared lean")
	}
	if factor > 1.0 {
		factor = 1.0
	}

	result.Score *= factor*biasWeight + (1 - biasWeight)
}

func (cs *ChallengeScorer) applyTypeDiversity(result *model.ScoredChallenge, profile *model.PerformanceProfile) {
	repeats := 0
	for _, t := range profile.LastChallengeTypes {
		if t == result.Challenge.Type {
			repeats++
		}
	}

	var factor float64
	switch repeats {
	case 0:
		factor = 1.0
	case 1:
		factor = 0.7
	case 2:
		factor = 0.4
	default:
		factor = 0.1
		result.Reasons = append(result.Reasons, fmt.Sprintf("type %s repeated recently", result.Challenge.Type))
	}

	result.Score *= factor*diversityWeight + (1 - diversityWeight)
}

func (cs *ChallengeScorer) applyStreakBonus(result *model.ScoredChallenge, profile *model.PerformanceProfile) {
	// Applied directly, deliberately uncapped.
	result.Score *= profile.StreakMultiplier
	if profile.StreakMultiplier > 1 {
		result.Reasons = append(result.Reasons, fmt.Sprintf("streak bonus x%.2f", profile.StreakMultiplier))
	}
}

func (cs *ChallengeScorer) applyTimeFit(result *model.ScoredChallenge, profile *model.PerformanceProfile) {
	stats, seen := profile.TypePerformance[result.Challenge.Type]
	if !seen || result.Challenge.EstimatedTimeMinutes <= 0 {
		return
	}

	estimated := float64(result.Challenge.EstimatedTimeMinutes) * 60
	switch {
	case stats.AvgTimeSeconds > 2*estimated:
		result.Score *= 0.8
		result.Reasons = append(result.Reasons, "historically slow for this type")
	case stats.AvgTimeSeconds > 1.5*estimated:
		result.Score *= 0.9
	}
}

// ceilOversample gives the oversampling draw count for n distinct
// recommendations.
func ceilOversample(n int) int {
	return int(math.Ceil(1.5 * float64(n)))
}
