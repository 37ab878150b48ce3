package repository

import (
	"github.com/lshigami/Flagroom/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	Create(submission *model.Submission) error
	FindByID(id string) (*model.Submission, error)
	FindByStudentAndChallenge(studentID, challengeID uint) (*model.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *model.Submission) error {
	return r.db.Create(submission).Error
}

func (r *submissionRepository) FindByID(id string) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.Preload("Challenge").Preload("Student").First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByStudentAndChallenge(studentID, challengeID uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.Where("student_id = ? AND challenge_id = ?", studentID, challengeID).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}
