package service

import (
	"time"

	"echobreak_backend/internal/model"
)

// Store interfaces consumed by the engine services. The concrete
// implementations live in internal/repository; tests substitute in-memory
// fakes.

type UserStore interface {
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	UpdateStreak(userID uint, streak int, lastSubmission time.Time) error
	UpdateAvatar(userID uint, avatarURL string) error
	ListIDs() ([]uint, error)
}

type SubmissionStore interface {
	Create(submission *model.ChallengeSubmission) error
	FindByUserSince(userID uint, since time.Time) ([]model.ChallengeSubmission, error)
	CompletedChallengeIDs(userID uint, since time.Time) ([]uint, error)
}

type ReadingStore interface {
	Create(activity *model.ReadingActivity) error
	FindByUserSince(userID uint, since time.Time) ([]model.ReadingActivity, error)
}

type SessionStore interface {
	Create(session *model.LearningSession) error
	FindByUserSince(userID uint, since time.Time) ([]model.LearningSession, error)
}

type ChallengeCatalog interface {
	FindByID(id uint) (*model.Challenge, error)
	FindByIDs(ids []uint) ([]model.Challenge, error)
	ListActive(excludeIDs []uint, challengeType model.ChallengeType, difficulty model.Difficulty) ([]model.Challenge, error)
}

type ChallengeAdminStore interface {
	Create(challenge *model.Challenge) error
	Update(challenge *model.Challenge) error
	Delete(id uint) error
}

type SelectionStore interface {
	Create(selection *model.DailyChallengeSelection) error
	FindByUserAndDate(userID uint, date string) (*model.DailyChallengeSelection, error)
}

type SnapshotStore interface {
	SaveSnapshot(snapshot *model.EchoScoreSnapshot) error
	History(userID uint, sinceDate string) ([]model.EchoScoreSnapshot, error)
}
