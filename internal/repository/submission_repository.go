package repository

import (
	"time"

	"echobreak_backend/internal/model"

	"gorm.io/gorm"
)

// SubmissionRepository 处理挑战作答记录的数据库操作
type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.ChallengeSubmission) error {
	return r.DB.Create(submission).Error
}

// FindByUserSince returns the user's submissions inside the window,
// most recent first.
func (r *SubmissionRepository) FindByUserSince(userID uint, since time.Time) ([]model.ChallengeSubmission, error) {
	var submissions []model.ChallengeSubmission
	err := r.DB.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// CompletedChallengeIDs returns the distinct challenge ids the user
// submitted inside the window, for repeat prevention.
func (r *SubmissionRepository) CompletedChallengeIDs(userID uint, since time.Time) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.ChallengeSubmission{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Distinct().
		Pluck("challenge_id", &ids).Error
	return ids, err
}
