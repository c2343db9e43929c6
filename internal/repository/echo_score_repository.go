package repository

import (
	"echobreak_backend/internal/model"

	"gorm.io/gorm"
)

// EchoScoreRepository 处理 Echo Score 快照的数据库操作
type EchoScoreRepository struct {
	DB *gorm.DB
}

func NewEchoScoreRepository(db *gorm.DB) *EchoScoreRepository {
	return &EchoScoreRepository{DB: db}
}

// SaveSnapshot appends the snapshot and overwrites the user's live score
// in one transaction.
func (r *EchoScoreRepository) SaveSnapshot(snapshot *model.EchoScoreSnapshot) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(snapshot).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", snapshot.UserID).
			Update("echo_score", snapshot.TotalScore).Error
	})
}

// History returns the user's snapshots from the given score date on,
// newest first.
func (r *EchoScoreRepository) History(userID uint, sinceDate string) ([]model.EchoScoreSnapshot, error) {
	var snapshots []model.EchoScoreSnapshot
	err := r.DB.Where("user_id = ? AND score_date >= ?", userID, sinceDate).
		Order("score_date DESC, id DESC").
		Find(&snapshots).Error
	return snapshots, err
}
