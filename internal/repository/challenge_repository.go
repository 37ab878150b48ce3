package repository

import (
	"github.com/lshigami/Flagroom/internal/model"
	"gorm.io/gorm"
)

type ChallengeRepository interface {
	Create(challenge *model.Challenge) error
	FindByID(id uint) (*model.Challenge, error)
	FindAll() ([]model.Challenge, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(challenge *model.Challenge) error {
	return r.db.Create(challenge).Error
}

func (r *challengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.First(&challenge, id).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// FindAll returns challenges in insertion order. Flag verification scans
// this set and takes the first decrypted match, so the order must be
// stable.
func (r *challengeRepository) FindAll() ([]model.Challenge, error) {
	var challenges []model.Challenge
	if err := r.db.Order("id ASC").Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}
