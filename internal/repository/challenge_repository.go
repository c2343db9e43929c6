package repository

import (
	"errors"

	"echobreak_backend/internal/model"
	"echobreak_backend/internal/util"

	"gorm.io/gorm"
)

// ChallengeRepository is the read side of the challenge catalog plus the
// admin CRUD surface.
type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) Update(challenge *model.Challenge) error {
	return r.DB.Save(challenge).Error
}

func (r *ChallengeRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Challenge{}, id).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// FindByIDs returns the challenges for the given id set in one query.
func (r *ChallengeRepository) FindByIDs(ids []uint) ([]model.Challenge, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var challenges []model.Challenge
	err := r.DB.Where("id IN ?", ids).Find(&challenges).Error
	return challenges, err
}

// ListActive returns active candidates, minus an exclusion set, with
// optional type and difficulty filters.
func (r *ChallengeRepository) ListActive(excludeIDs []uint, challengeType model.ChallengeType, difficulty model.Difficulty) ([]model.Challenge, error) {
	query := r.DB.Where("is_active = ?", true)

	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if challengeType != "" {
		query = query.Where("type = ?", challengeType)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var challenges []model.Challenge
	err := query.Find(&challenges).Error
	return challenges, err
}
