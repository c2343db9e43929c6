package model

// DailyChallengeSelection is the one persisted challenge choice per user per
// UTC day. The composite unique index is what enforces the invariant; a
// duplicate insert from a concurrent request surfaces as a duplicate-key
// error and the caller re-reads the winning row.
// swagger:model DailyChallengeSelection
type DailyChallengeSelection struct {
	BaseModel
	UserID      uint   `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_selection_date" json:"userId"`
	ChallengeID uint   `gorm:"type:bigint unsigned;not null" json:"challengeId"`
	// UTC day in YYYY-MM-DD form.
	SelectionDate string `gorm:"size:10;not null;uniqueIndex:idx_user_selection_date" json:"selectionDate"`
	Reason        string `gorm:"type:text" json:"reason"`
}

func (DailyChallengeSelection) TableName() string {
	return "daily_challenge_selections"
}
