package model

import "time"

// LearningSession 记录用户的学习会话，用于一致性评分
// swagger:model LearningSession
type LearningSession struct {
	BaseModel
	UserID       uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	SessionStart time.Time `gorm:"not null;index" json:"sessionStart"`
}

func (LearningSession) TableName() string {
	return "learning_sessions"
}
