package model

// Derived, never-persisted types passed between the profile builder, the
// challenge scorer and the echo score calculator.

// BucketStats is per-type or per-difficulty aggregate performance. A bucket
// only exists when the user has at least one submission in it, so "unknown"
// stays distinguishable from "0% success".
type BucketStats struct {
	SuccessRate    float64 `json:"successRate"`
	AvgTimeSeconds float64 `json:"avgTimeSeconds"`
	Count          int     `json:"count"`
}

// PerformanceProfile is a pure function of the user's logs inside the
// lookback window, recomputed per call.
type PerformanceProfile struct {
	UserID                uint                          `json:"userId"`
	TotalSubmissions      int                           `json:"totalSubmissions"`
	OverallSuccessRate    float64                       `json:"overallSuccessRate"`
	RecentSuccessRate     float64                       `json:"recentSuccessRate"`
	TypePerformance       map[ChallengeType]BucketStats `json:"typePerformance"`
	DifficultyPerformance map[Difficulty]BucketStats    `json:"difficultyPerformance"`
	StreakMultiplier      float64                       `json:"streakMultiplier"`
	LastChallengeTypes    []ChallengeType               `json:"lastChallengeTypes"`
	BiasExposure          map[string]int                `json:"biasExposure"`
}

// TotalBiasExposure sums the exposure histogram.
func (p *PerformanceProfile) TotalBiasExposure() int {
	total := 0
	for _, n := range p.BiasExposure {
		total += n
	}
	return total
}

// ScoredChallenge pairs a candidate with its multiplicative score and the
// audit trail of factors that fired. Reasons never affect ranking.
type ScoredChallenge struct {
	Challenge *Challenge `json:"challenge"`
	Score     float64    `json:"score"`
	Reasons   []string   `json:"reasons"`
}

// EchoScoreResult is one Echo Score computation: the weighted total, its
// five components, and the audit detail blob built in the same pass.
type EchoScoreResult struct {
	UserID           uint    `json:"userId"`
	TotalScore       float64 `json:"totalScore"`
	DiversityScore   float64 `json:"diversityScore"`
	AccuracyScore    float64 `json:"accuracyScore"`
	SwitchSpeedScore float64 `json:"switchSpeedScore"`
	ConsistencyScore float64 `json:"consistencyScore"`
	ImprovementScore float64 `json:"improvementScore"`

	Details EchoScoreDetails `json:"details"`
}

// EchoScoreDetails is serialized into the snapshot's calculationDetails
// column for audit and display.
type EchoScoreDetails struct {
	ReadingCount          int     `json:"readingCount"`
	SubmissionCount       int     `json:"submissionCount"`
	BiasSwapCount         int     `json:"biasSwapCount"`
	CorrectCount          int     `json:"correctCount"`
	MedianSwitchSecs      float64 `json:"medianSwitchSeconds"`
	ActiveDays            int     `json:"activeDays"`
	ConsistencyWindowDays int     `json:"consistencyWindowDays"`
	AccuracySlope         float64 `json:"accuracySlope"`
	SpeedSlope            float64 `json:"speedSlope"`
	DiversityWindowDays   int     `json:"diversityWindowDays"`
	PerformanceWindowDays int     `json:"performanceWindowDays"`
}

// RecalculationReport collects the per-user outcome buckets of a batch
// echo score recompute.
type RecalculationReport struct {
	Succeeded []uint          `json:"succeeded"`
	Failed    map[uint]string `json:"failed"`
}
