package service

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Flagroom/internal/crypto"
	"github.com/lshigami/Flagroom/internal/dto"
	"github.com/lshigami/Flagroom/internal/model"
	"github.com/lshigami/Flagroom/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ChallengeService covers teacher authoring and the listings both roles
// read. Flags are encrypted here, server-side, with the shared key.
type ChallengeService interface {
	CreateChallenge(req dto.CreateChallengeRequest) (*dto.ChallengeResponse, error)
	GetAllChallenges() ([]dto.ChallengeResponse, error)
	GetStudentsWithProgress() ([]dto.StudentProgressDTO, error)
}

type challengeService struct {
	challengeRepo repository.ChallengeRepository
	userRepo      repository.UserRepository
	sealer        *crypto.FlagSealer
	db            *gorm.DB // For transactions
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	userRepo repository.UserRepository,
	sealer *crypto.FlagSealer,
	db *gorm.DB,
) ChallengeService {
	return &challengeService{
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		sealer:        sealer,
		db:            db,
	}
}

// CreateChallenge validates name and flag uniqueness, seals the flag and
// seeds a NOT_STARTED completion row for every student. Verification
// takes the first decrypted match, so a reused flag would make one of
// the two challenges unreachable; it is rejected at write time instead.
func (s *challengeService) CreateChallenge(req dto.CreateChallengeRequest) (*dto.ChallengeResponse, error) {
	if !strings.HasPrefix(req.Flag, FlagPrefix) {
		return nil, ErrInvalidFlag
	}

	existing, err := s.challengeRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load challenges: %w", err)
	}
	for i := range existing {
		if existing[i].Name == req.Name {
			return nil, ErrDuplicateName
		}
		plaintext, err := s.sealer.Decrypt(existing[i].EncryptedFlag)
		if err != nil {
			log.Warn().Err(err).Uint("challengeID", existing[i].ID).Msg("Stored flag failed to decrypt during uniqueness check")
			continue
		}
		if plaintext == req.Flag {
			return nil, ErrDuplicateFlag
		}
	}

	encryptedFlag, err := s.sealer.Encrypt(req.Flag)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt flag: %w", err)
	}

	challenge := model.Challenge{
		Name:          req.Name,
		Description:   req.Description,
		URL:           req.URL,
		EncryptedFlag: encryptedFlag,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&challenge).Error; err != nil {
			return err
		}

		// Accept only updates completion rows, so every (student,
		// challenge) pair must exist before it is ever targeted.
		var studentIDs []uint
		if err := tx.Model(&model.User{}).Where("role = ?", model.RoleStudent).Pluck("id", &studentIDs).Error; err != nil {
			return err
		}
		if len(studentIDs) == 0 {
			return nil
		}
		completions := make([]model.UserChallengeCompletion, 0, len(studentIDs))
		for _, studentID := range studentIDs {
			completions = append(completions, model.UserChallengeCompletion{
				UserID:      studentID,
				ChallengeID: challenge.ID,
				Status:      model.CompletionNotStarted,
			})
		}
		return tx.Create(&completions).Error
	})
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create challenge with seeded completions")
		return nil, err
	}

	var resp dto.ChallengeResponse
	copier.Copy(&resp, &challenge)
	return &resp, nil
}

func (s *challengeService) GetAllChallenges() ([]dto.ChallengeResponse, error) {
	challenges, err := s.challengeRepo.FindAll()
	if err != nil {
		return nil, err
	}
	var resp []dto.ChallengeResponse
	copier.Copy(&resp, &challenges)
	return resp, nil
}

func (s *challengeService) GetStudentsWithProgress() ([]dto.StudentProgressDTO, error) {
	students, err := s.userRepo.FindStudentsWithCompletions()
	if err != nil {
		return nil, err
	}

	resp := make([]dto.StudentProgressDTO, 0, len(students))
	for _, student := range students {
		row := dto.StudentProgressDTO{
			ID:         student.ID,
			Name:       student.Name,
			Image:      student.Image,
			Verified:   student.Verified,
			Challenges: make([]dto.ChallengeProgressDTO, 0, len(student.Completions)),
		}
		for _, completion := range student.Completions {
			row.Challenges = append(row.Challenges, dto.ChallengeProgressDTO{
				ChallengeID: completion.ChallengeID,
				Name:        completion.Challenge.Name,
				Status:      completion.Status,
			})
		}
		resp = append(resp, row)
	}
	return resp, nil
}
