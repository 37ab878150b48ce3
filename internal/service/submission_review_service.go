package service

import (
	"errors"
	"fmt"

	"github.com/lshigami/Flagroom/internal/dto"
	"github.com/lshigami/Flagroom/internal/model"
	"github.com/lshigami/Flagroom/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SubmissionReviewService is the teacher side of the workflow: inspect a
// pending submission and accept it, crediting the submitting student.
type SubmissionReviewService interface {
	GetSubmission(id string) (*dto.SubmissionDetailResponse, error)
	AcceptSubmission(id string) (*dto.CompletionResponse, error)
}

type submissionReviewService struct {
	submissionRepo repository.SubmissionRepository
	db             *gorm.DB // For transactions
}

func NewSubmissionReviewService(submissionRepo repository.SubmissionRepository, db *gorm.DB) SubmissionReviewService {
	return &submissionReviewService{submissionRepo: submissionRepo, db: db}
}

func (s *submissionReviewService) GetSubmission(id string) (*dto.SubmissionDetailResponse, error) {
	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	resp := dto.SubmissionDetailResponse{
		ID: submission.ID,
		Challenge: dto.ChallengeResponse{
			ID:          submission.Challenge.ID,
			Name:        submission.Challenge.Name,
			Description: submission.Challenge.Description,
			URL:         submission.Challenge.URL,
			CreatedAt:   submission.Challenge.CreatedAt,
			UpdatedAt:   submission.Challenge.UpdatedAt,
		},
		Student: dto.StudentSummary{
			ID:    submission.Student.ID,
			Name:  submission.Student.Name,
			Image: submission.Student.Image,
		},
		CreatedAt: submission.CreatedAt,
	}
	return &resp, nil
}

// AcceptSubmission marks the submitting student's completion COMPLETED
// and deletes the pending submission, in one transaction. If the
// completion update fails the submission survives for retry: a verified
// flag must never be silently lost.
func (s *submissionReviewService) AcceptSubmission(id string) (*dto.CompletionResponse, error) {
	var submission model.Submission

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&submission, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// The completion is keyed by the student who submitted the
		// flag, not by whoever clicks accept.
		res := tx.Model(&model.UserChallengeCompletion{}).
			Where("user_id = ? AND challenge_id = ?", submission.StudentID, submission.ChallengeID).
			Update("status", model.CompletionCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCompletionMissing
		}

		return tx.Delete(&model.Submission{}, "id = ?", id).Error
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Error().Err(err).Str("submissionID", id).Msg("Failed to accept submission")
		}
		return nil, err
	}

	return &dto.CompletionResponse{
		UserID:      submission.StudentID,
		ChallengeID: submission.ChallengeID,
		Status:      model.CompletionCompleted,
	}, nil
}
