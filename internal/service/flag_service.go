package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/Flagroom/internal/crypto"
	"github.com/lshigami/Flagroom/internal/dto"
	"github.com/lshigami/Flagroom/internal/model"
	"github.com/lshigami/Flagroom/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FlagPrefix is the fixed prefix every valid flag carries. Submissions
// without it are rejected before any database access.
const FlagPrefix = "embsec{"

// FlagService verifies submitted flags against the stored challenges and
// creates the pending submission a teacher later reviews.
type FlagService interface {
	SubmitFlag(studentID uint, req dto.SubmitFlagRequest) (*dto.SubmitFlagResponse, error)
}

type flagService struct {
	challengeRepo  repository.ChallengeRepository
	submissionRepo repository.SubmissionRepository
	sealer         *crypto.FlagSealer
	baseURL        string
}

func NewFlagService(
	challengeRepo repository.ChallengeRepository,
	submissionRepo repository.SubmissionRepository,
	sealer *crypto.FlagSealer,
	baseURL string,
) FlagService {
	return &flagService{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		sealer:         sealer,
		baseURL:        baseURL,
	}
}

// SubmitFlag normalizes the submitted string, finds the first challenge
// whose decrypted flag equals it and records a pending submission for
// the student. Resubmitting a correct flag returns the existing review
// link instead of creating a second submission.
func (s *flagService) SubmitFlag(studentID uint, req dto.SubmitFlagRequest) (*dto.SubmitFlagResponse, error) {
	flag := normalizeFlag(req.Flag)

	if !strings.HasPrefix(flag, FlagPrefix) {
		return nil, ErrInvalidFlag
	}

	challenges, err := s.challengeRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load challenges: %w", err)
	}

	var matched *model.Challenge
	for i := range challenges {
		plaintext, err := s.sealer.Decrypt(challenges[i].EncryptedFlag)
		if err != nil {
			// A row we cannot decrypt can never match; keep scanning.
			log.Warn().Err(err).Uint("challengeID", challenges[i].ID).Msg("Stored flag failed to decrypt")
			continue
		}
		if plaintext == flag {
			matched = &challenges[i]
			break
		}
	}
	if matched == nil {
		return nil, ErrNoMatch
	}

	submission, err := s.findOrCreateSubmission(studentID, matched.ID)
	if err != nil {
		return nil, err
	}

	return &dto.SubmitFlagResponse{
		Msg:  "Success",
		Name: matched.Name,
		Link: fmt.Sprintf("%s/submit/%s", s.baseURL, submission.ID),
	}, nil
}

func (s *flagService) findOrCreateSubmission(studentID, challengeID uint) (*model.Submission, error) {
	existing, err := s.submissionRepo.FindByStudentAndChallenge(studentID, challengeID)
	if err == nil {
		log.Info().
			Uint("studentID", studentID).
			Uint("challengeID", challengeID).
			Str("submissionID", existing.ID).
			Msg("Reusing pending submission for repeated correct flag")
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up pending submission: %w", err)
	}

	submission := model.Submission{
		ID:          uuid.NewString(),
		ChallengeID: challengeID,
		StudentID:   studentID,
	}
	if err := s.submissionRepo.Create(&submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return &submission, nil
}

// normalizeFlag removes every newline and carriage return, wherever it
// appears. Terminal paste is the usual source of the trailing one.
func normalizeFlag(flag string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(flag)
}
