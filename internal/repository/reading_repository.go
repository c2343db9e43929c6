package repository

import (
	"time"

	"echobreak_backend/internal/model"

	"gorm.io/gorm"
)

// ReadingRepository 处理阅读行为记录的数据库操作
type ReadingRepository struct {
	DB *gorm.DB
}

func NewReadingRepository(db *gorm.DB) *ReadingRepository {
	return &ReadingRepository{DB: db}
}

func (r *ReadingRepository) Create(activity *model.ReadingActivity) error {
	return r.DB.Create(activity).Error
}

// FindByUserSince returns the user's reading activity inside the window,
// oldest first.
func (r *ReadingRepository) FindByUserSince(userID uint, since time.Time) ([]model.ReadingActivity, error) {
	var activities []model.ReadingActivity
	err := r.DB.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC").
		Find(&activities).Error
	return activities, err
}
