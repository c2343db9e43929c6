package model

import "encoding/json"

// EchoScoreSnapshot 记录一次 Echo Score 计算结果，仅追加
// swagger:model EchoScoreSnapshot
type EchoScoreSnapshot struct {
	BaseModel
	UserID           uint    `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	TotalScore       float64 `gorm:"not null" json:"totalScore"`
	DiversityScore   float64 `json:"diversityScore"`
	AccuracyScore    float64 `json:"accuracyScore"`
	SwitchSpeedScore float64 `json:"switchSpeedScore"`
	ConsistencyScore float64 `json:"consistencyScore"`
	ImprovementScore float64 `json:"improvementScore"`

	CalculationDetails json.RawMessage `gorm:"type:json" json:"calculationDetails"`

	// UTC day in YYYY-MM-DD form.
	ScoreDate string `gorm:"size:10;index" json:"scoreDate"`
}

func (EchoScoreSnapshot) TableName() string {
	return "echo_score_snapshots"
}
