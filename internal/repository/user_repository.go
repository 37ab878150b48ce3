package repository

import (
	"github.com/lshigami/Flagroom/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(id uint) (*model.User, error)
	FindStudentsWithCompletions() ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindStudentsWithCompletions eager loads each student's completion rows
// and the challenges they point at, for the teacher dashboard.
func (r *userRepository) FindStudentsWithCompletions() ([]model.User, error) {
	var students []model.User
	err := r.db.Where("role = ?", model.RoleStudent).
		Preload("Completions", func(db *gorm.DB) *gorm.DB {
			return db.Order("user_challenge_completions.challenge_id ASC")
		}).
		Preload("Completions.Challenge").
		Order("users.name ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}
