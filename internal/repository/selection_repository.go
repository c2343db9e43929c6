package repository

import (
	"errors"

	"echobreak_backend/internal/model"
	"echobreak_backend/internal/util"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// SelectionRepository 处理每日挑战选择的数据库操作
type SelectionRepository struct {
	DB *gorm.DB
}

func NewSelectionRepository(db *gorm.DB) *SelectionRepository {
	return &SelectionRepository{DB: db}
}

// Create inserts a selection row. A second insert for the same
// (user, date) trips the unique index and comes back as
// util.ErrDuplicateSelection so the caller can re-read the winning row.
func (r *SelectionRepository) Create(selection *model.DailyChallengeSelection) error {
	err := r.DB.Create(selection).Error
	if err != nil && isDuplicateKey(err) {
		return util.ErrDuplicateSelection
	}
	return err
}

func (r *SelectionRepository) FindByUserAndDate(userID uint, date string) (*model.DailyChallengeSelection, error) {
	var selection model.DailyChallengeSelection
	err := r.DB.Where("user_id = ? AND selection_date = ?", userID, date).
		First(&selection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &selection, nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
