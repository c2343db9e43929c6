package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"echobreak_backend/internal/model"
	"echobreak_backend/internal/util"
	"echobreak_backend/pkg/logger"
	"echobreak_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Component weights; they sum to 1.0.
const (
	diversityComponentWeight   = 0.25
	accuracyComponentWeight    = 0.25
	switchSpeedComponentWeight = 0.20
	consistencyComponentWeight = 0.15
	improvementComponentWeight = 0.15
)

const (
	diversityWindowDays   = 7
	performanceWindowDays = 30
	consistencyWindowDays = 14

	// Switch-speed mapping endpoints, in seconds.
	fastSwitchSeconds = 30
	slowSwitchSeconds = 300

	// Improvement needs this many data points for a meaningful slope.
	minImprovementSamples = 5

	// Batch recompute keeps this many per-user calculations in flight.
	batchConcurrency = 10
)

// EchoScoreService computes the composite Echo Score: five independent
// weighted sub-scores over the user's recent activity, each in [0,100],
// plus a detail blob for audit and display built in the same pass.
type EchoScoreService struct {
	Users       UserStore
	Readings    ReadingStore
	Submissions SubmissionStore
	Sessions    SessionStore
	Snapshots   SnapshotStore
	Redis       *redis.Client
}

func NewEchoScoreService(
	users UserStore,
	readings ReadingStore,
	submissions SubmissionStore,
	sessions SessionStore,
	snapshots SnapshotStore,
	rdb *redis.Client,
) *EchoScoreService {
	return &EchoScoreService{
		Users:       users,
		Readings:    readings,
		Submissions: submissions,
		Sessions:    sessions,
		Snapshots:   snapshots,
		Redis:       rdb,
	}
}

// Calculate computes the score without persisting anything. Missing or
// empty history never fails: components degrade to their neutral
// defaults so a score is always produced.
func (s *EchoScoreService) Calculate(userID uint) (*model.EchoScoreResult, error) {
	now := time.Now().UTC()

	readings, err := s.Readings.FindByUserSince(userID, now.AddDate(0, 0, -diversityWindowDays))
	if err != nil {
		return nil, err
	}
	submissions, err := s.Submissions.FindByUserSince(userID, now.AddDate(0, 0, -performanceWindowDays))
	if err != nil {
		return nil, err
	}
	sessions, err := s.Sessions.FindByUserSince(userID, now.AddDate(0, 0, -consistencyWindowDays))
	if err != nil {
		return nil, err
	}

	result := &model.EchoScoreResult{
		UserID: userID,
		Details: model.EchoScoreDetails{
			ReadingCount:          len(readings),
			SubmissionCount:       len(submissions),
			ConsistencyWindowDays: consistencyWindowDays,
			DiversityWindowDays:   diversityWindowDays,
			PerformanceWindowDays: performanceWindowDays,
		},
	}

	result.DiversityScore = diversityScore(readings)
	result.AccuracyScore = accuracyScore(submissions, &result.Details)
	result.SwitchSpeedScore = switchSpeedScore(submissions, &result.Details)
	result.ConsistencyScore = consistencyScore(sessions, &result.Details)
	result.ImprovementScore = improvementScore(submissions, &result.Details)

	result.TotalScore = util.Round2(
		result.DiversityScore*diversityComponentWeight +
			result.AccuracyScore*accuracyComponentWeight +
			result.SwitchSpeedScore*switchSpeedComponentWeight +
			result.ConsistencyScore*consistencyComponentWeight +
			result.ImprovementScore*improvementComponentWeight)

	return result, nil
}

// CalculateAndSave computes the score, appends a snapshot, and overwrites
// the user's live score. It is deliberately not idempotent; callers
// throttle via CalculateDaily.
func (s *EchoScoreService) CalculateAndSave(userID uint) (*model.EchoScoreResult, error) {
	result, err := s.Calculate(userID)
	if err != nil {
		return nil, err
	}

	details, err := json.Marshal(result.Details)
	if err != nil {
		return nil, err
	}

	snapshot := &model.EchoScoreSnapshot{
		UserID:             userID,
		TotalScore:         result.TotalScore,
		DiversityScore:     result.DiversityScore,
		AccuracyScore:      result.AccuracyScore,
		SwitchSpeedScore:   result.SwitchSpeedScore,
		ConsistencyScore:   result.ConsistencyScore,
		ImprovementScore:   result.ImprovementScore,
		CalculationDetails: details,
		ScoreDate:          time.Now().UTC().Format(util.DateFormat),
	}
	if err := s.Snapshots.SaveSnapshot(snapshot); err != nil {
		return nil, err
	}

	monitoring.EchoScoreCalculations.Inc()
	return result, nil
}

// CalculateDaily is the throttled entry point: at most one persisted
// calculation per user per UTC day, enforced through Redis SETNX. Without
// Redis it falls through to an unthrottled save.
func (s *EchoScoreService) CalculateDaily(ctx context.Context, userID uint) (*model.EchoScoreResult, error) {
	if s.Redis != nil {
		key := "echobreak:echo-calc:" + time.Now().UTC().Format(util.DateFormat) + ":" + util.FormatUint(userID)
		ok, err := s.Redis.SetNX(ctx, key, 1, 48*time.Hour).Result()
		if err != nil {
			logger.Log.Warn("echo score throttle check failed", zap.Uint("userId", userID), zap.Error(err))
		} else if !ok {
			return nil, util.ErrAlreadyCalculated
		}
	}
	return s.CalculateAndSave(userID)
}

// History returns persisted snapshots covering the trailing number of days.
func (s *EchoScoreService) History(userID uint, days int) ([]model.EchoScoreSnapshot, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days).Format(util.DateFormat)
	return s.Snapshots.History(userID, since)
}

// RecalculateAll recomputes and saves every user's score, bounded to
// batchConcurrency in-flight calculations. Per-user failures are
// collected, never fatal to the batch.
func (s *EchoScoreService) RecalculateAll(ctx context.Context) (*model.RecalculationReport, error) {
	ids, err := s.Users.ListIDs()
	if err != nil {
		return nil, err
	}

	report := &model.RecalculationReport{Failed: make(map[uint]string)}
	sem := semaphore.NewWeighted(batchConcurrency)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Drain in-flight workers so the returned report is settled.
			wg.Wait()
			return report, err
		}

		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			defer sem.Release(1)

			_, calcErr := s.CalculateAndSave(userID)

			mu.Lock()
			defer mu.Unlock()
			if calcErr != nil {
				report.Failed[userID] = calcErr.Error()
			} else {
				report.Succeeded = append(report.Succeeded, userID)
			}
		}(id)
	}

	wg.Wait()

	if len(report.Failed) > 0 {
		logger.Log.Warn("batch echo score recompute finished with failures",
			zap.Int("succeeded", len(report.Succeeded)),
			zap.Int("failed", len(report.Failed)))
	}
	return report, nil
}

// diversityScore is the Gini index over the window's bias ratings,
// shifted onto the positive 1..7 ordinal scale the index needs, scaled to
// [0,100]. No reading activity scores 0 — an empty week shows no
// perspective diversity at all.
func diversityScore(readings []model.ReadingActivity) float64 {
	if len(readings) == 0 {
		return 0
	}
	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = util.Clamp(r.BiasRating, -3, 3) + 4
	}
	return util.Round2(util.Clamp(util.GiniIndex(values)*100, 0, 100))
}

func accuracyScore(submissions []model.ChallengeSubmission, details *model.EchoScoreDetails) float64 {
	if len(submissions) == 0 {
		return 0
	}
	correct := 0
	for _, sub := range submissions {
		if sub.IsCorrect {
			correct++
		}
	}
	details.CorrectCount = correct
	return util.Round2(float64(correct) / float64(len(submissions)) * 100)
}

// switchSpeedScore maps the median BIAS_SWAP response time linearly:
// fastSwitchSeconds or quicker scores 100, slowSwitchSeconds or slower
// scores 0. No bias-swap history is neutral, not zero.
func switchSpeedScore(submissions []model.ChallengeSubmission, details *model.EchoScoreDetails) float64 {
	var times []float64
	for _, sub := range submissions {
		if sub.Type == model.BiasSwap {
			times = append(times, float64(sub.TimeSpentSeconds))
		}
	}
	details.BiasSwapCount = len(times)
	if len(times) == 0 {
		return 50
	}

	median := util.Median(times)
	details.MedianSwitchSecs = median

	switch {
	case median <= fastSwitchSeconds:
		return 100
	case median >= slowSwitchSeconds:
		return 0
	default:
		return util.Round2((slowSwitchSeconds - median) / (slowSwitchSeconds - fastSwitchSeconds) * 100)
	}
}

// consistencyScore is the share of the window's days with at least one
// session. The timestamp lookback can graze a 15th calendar day, so the
// ratio is clamped.
func consistencyScore(sessions []model.LearningSession, details *model.EchoScoreDetails) float64 {
	days := make(map[string]bool)
	for _, session := range sessions {
		days[session.SessionStart.UTC().Format(util.DateFormat)] = true
	}
	details.ActiveDays = len(days)
	return util.Round2(util.Clamp(float64(len(days))/consistencyWindowDays*100, 0, 100))
}

// improvementScore combines the least-squares slopes of the 0/1 accuracy
// series and the 1/time speed series over the window, oldest first.
// Fewer than minImprovementSamples points is neutral.
func improvementScore(submissions []model.ChallengeSubmission, details *model.EchoScoreDetails) float64 {
	if len(submissions) < minImprovementSamples {
		return 50
	}

	// Submissions arrive most recent first; slopes want time order.
	n := len(submissions)
	accuracySeries := make([]float64, n)
	speedSeries := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sub := submissions[i]
		idx := n - 1 - i
		if sub.IsCorrect {
			accuracySeries[idx] = 1
		}
		seconds := float64(sub.TimeSpentSeconds)
		if seconds < 1 {
			seconds = 1
		}
		speedSeries[idx] = 1 / seconds
	}

	accuracySlope := util.LinearSlope(accuracySeries)
	speedSlope := util.LinearSlope(speedSeries)
	details.AccuracySlope = accuracySlope
	details.SpeedSlope = speedSlope

	return util.Round2(util.Clamp(50+(accuracySlope+speedSlope)*25, 0, 100))
}
