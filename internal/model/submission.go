package model

// ChallengeSubmission 记录用户的挑战作答，仅追加
// swagger:model ChallengeSubmission
type ChallengeSubmission struct {
	BaseModel
	UserID           uint          `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ChallengeID      uint          `gorm:"index;type:bigint unsigned;not null" json:"challengeId"`
	Type             ChallengeType `gorm:"size:50;index" json:"type"`
	Difficulty       Difficulty    `gorm:"size:20" json:"difficulty"`
	IsCorrect        bool          `json:"isCorrect"`
	TimeSpentSeconds int           `gorm:"default:0" json:"timeSpentSeconds"`
}

func (ChallengeSubmission) TableName() string {
	return "challenge_submissions"
}
