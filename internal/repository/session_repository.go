package repository

import (
	"time"

	"echobreak_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.LearningSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByUserSince(userID uint, since time.Time) ([]model.LearningSession, error) {
	var sessions []model.LearningSession
	err := r.DB.Where("user_id = ? AND session_start >= ?", userID, since).
		Order("session_start ASC").
		Find(&sessions).Error
	return sessions, err
}
