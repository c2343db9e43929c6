package service

import (
	"fmt"
	"time"

	"echobreak_backend/internal/model"
)

// ActivityService appends the raw behavior logs the scoring engine reads:
// reading activity and learning sessions.
type ActivityService struct {
	Readings ReadingStore
	Sessions SessionStore
}

func NewActivityService(readings ReadingStore, sessions SessionStore) *ActivityService {
	return &ActivityService{Readings: readings, Sessions: sessions}
}

func (s *ActivityService) RecordReading(userID uint, articleID, source string, biasRating float64) (*model.ReadingActivity, error) {
	if biasRating < -3 || biasRating > 3 {
		return nil, fmt.Errorf("bias rating %.2f outside the -3..+3 scale", biasRating)
	}

	activity := &model.ReadingActivity{
		UserID:     userID,
		ArticleID:  articleID,
		Source:     source,
		BiasRating: biasRating,
	}
	if err := s.Readings.Create(activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *ActivityService) StartSession(userID uint, start time.Time) (*model.LearningSession, error) {
	if start.IsZero() {
		start = time.Now().UTC()
	}

	session := &model.LearningSession{
		UserID:       userID,
		SessionStart: start,
	}
	if err := s.Sessions.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}
