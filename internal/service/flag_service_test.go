package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lshigami/Flagroom/internal/crypto"
	"github.com/lshigami/Flagroom/internal/dto"
	"github.com/lshigami/Flagroom/internal/model"
	"github.com/lshigami/Flagroom/internal/repository"
)

const testBaseURL = "http://localhost:3000"

var testFlagKey = []byte("0123456789abcdef0123456789abcdef")

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.Submission{},
		&model.UserChallengeCompletion{},
	))
	return db
}

func newTestSealer(t *testing.T) *crypto.FlagSealer {
	t.Helper()
	sealer, err := crypto.NewFlagSealer(testFlagKey)
	require.NoError(t, err)
	return sealer
}

func createStudent(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	student := model.User{Name: name, Verified: true, Role: model.RoleStudent}
	require.NoError(t, db.Create(&student).Error)
	return &student
}

func createChallenge(t *testing.T, db *gorm.DB, sealer *crypto.FlagSealer, name, flag string) *model.Challenge {
	t.Helper()
	sealed, err := sealer.Encrypt(flag)
	require.NoError(t, err)
	challenge := model.Challenge{
		Name:          name,
		Description:   name + " description",
		URL:           "https://ctf.example.com/" + strings.ToLower(name),
		EncryptedFlag: sealed,
	}
	require.NoError(t, db.Create(&challenge).Error)
	return &challenge
}

func newFlagService(db *gorm.DB, sealer *crypto.FlagSealer) FlagService {
	return NewFlagService(
		repository.NewChallengeRepository(db),
		repository.NewSubmissionRepository(db),
		sealer,
		testBaseURL,
	)
}

// trackingChallengeRepo records whether the store was touched at all.
type trackingChallengeRepo struct{ called bool }

func (r *trackingChallengeRepo) Create(*model.Challenge) error {
	r.called = true
	return errors.New("unexpected store access")
}

func (r *trackingChallengeRepo) FindByID(uint) (*model.Challenge, error) {
	r.called = true
	return nil, errors.New("unexpected store access")
}

func (r *trackingChallengeRepo) FindAll() ([]model.Challenge, error) {
	r.called = true
	return nil, errors.New("unexpected store access")
}

type trackingSubmissionRepo struct{ called bool }

func (r *trackingSubmissionRepo) Create(*model.Submission) error {
	r.called = true
	return errors.New("unexpected store access")
}

func (r *trackingSubmissionRepo) FindByID(string) (*model.Submission, error) {
	r.called = true
	return nil, errors.New("unexpected store access")
}

func (r *trackingSubmissionRepo) FindByStudentAndChallenge(uint, uint) (*model.Submission, error) {
	r.called = true
	return nil, errors.New("unexpected store access")
}

func TestSubmitFlagRejectsMissingPrefixWithoutStoreAccess(t *testing.T) {
	challengeRepo := &trackingChallengeRepo{}
	submissionRepo := &trackingSubmissionRepo{}
	svc := NewFlagService(challengeRepo, submissionRepo, newTestSealer(t), testBaseURL)

	_, err := svc.SubmitFlag(1, dto.SubmitFlagRequest{Flag: "flag{not-ours}"})
	require.ErrorIs(t, err, ErrInvalidFlag)
	require.False(t, challengeRepo.called, "prefix rejection must not touch the challenge store")
	require.False(t, submissionRepo.called, "prefix rejection must not touch the submission store")
}

func TestSubmitFlagMatchesAndCreatesSubmission(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	student := createStudent(t, db, "Alice")
	warmup := createChallenge(t, db, sealer, "Warmup", "embsec{hello}")
	svc := newFlagService(db, sealer)

	resp, err := svc.SubmitFlag(student.ID, dto.SubmitFlagRequest{Flag: "embsec{hello}\n"})
	require.NoError(t, err)
	require.Equal(t, "Success", resp.Msg)
	require.Equal(t, "Warmup", resp.Name)

	var submissions []model.Submission
	require.NoError(t, db.Find(&submissions).Error)
	require.Len(t, submissions, 1)
	require.Equal(t, warmup.ID, submissions[0].ChallengeID)
	require.Equal(t, student.ID, submissions[0].StudentID)
	require.Equal(t, testBaseURL+"/submit/"+submissions[0].ID, resp.Link)
}

func TestSubmitFlagNoMatchCreatesNothing(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	student := createStudent(t, db, "Alice")
	createChallenge(t, db, sealer, "Warmup", "embsec{hello}")
	svc := newFlagService(db, sealer)

	_, err := svc.SubmitFlag(student.ID, dto.SubmitFlagRequest{Flag: "embsec{wrong}"})
	require.ErrorIs(t, err, ErrNoMatch)

	var count int64
	require.NoError(t, db.Model(&model.Submission{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSubmitFlagReusesPendingSubmission(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	student := createStudent(t, db, "Alice")
	createChallenge(t, db, sealer, "Warmup", "embsec{hello}")
	svc := newFlagService(db, sealer)

	first, err := svc.SubmitFlag(student.ID, dto.SubmitFlagRequest{Flag: "embsec{hello}"})
	require.NoError(t, err)
	second, err := svc.SubmitFlag(student.ID, dto.SubmitFlagRequest{Flag: "embsec{hello}"})
	require.NoError(t, err)
	require.Equal(t, first.Link, second.Link, "repeated correct submissions must reuse the review link")

	var count int64
	require.NoError(t, db.Model(&model.Submission{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSubmitFlagCreatesSeparateSubmissionsPerStudent(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	alice := createStudent(t, db, "Alice")
	bob := createStudent(t, db, "Bob")
	createChallenge(t, db, sealer, "Warmup", "embsec{hello}")
	svc := newFlagService(db, sealer)

	aliceResp, err := svc.SubmitFlag(alice.ID, dto.SubmitFlagRequest{Flag: "embsec{hello}"})
	require.NoError(t, err)
	bobResp, err := svc.SubmitFlag(bob.ID, dto.SubmitFlagRequest{Flag: "embsec{hello}"})
	require.NoError(t, err)
	require.NotEqual(t, aliceResp.Link, bobResp.Link)

	var count int64
	require.NoError(t, db.Model(&model.Submission{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestSubmitFlagStripsAllNewlines(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	student := createStudent(t, db, "Alice")
	createChallenge(t, db, sealer, "Warmup", "embsec{hello}")
	svc := newFlagService(db, sealer)

	resp, err := svc.SubmitFlag(student.ID, dto.SubmitFlagRequest{Flag: "emb\nsec{hello}\r\n"})
	require.NoError(t, err)
	require.Equal(t, "Success", resp.Msg)
}

func TestSubmitFlagFirstMatchWinsInStorageOrder(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	student := createStudent(t, db, "Alice")
	createChallenge(t, db, sealer, "First", "embsec{shared}")
	// Authoring normally rejects reused flags; simulate legacy data to
	// pin down the first-match contract.
	createChallenge(t, db, sealer, "Second", "embsec{shared}")
	svc := newFlagService(db, sealer)

	resp, err := svc.SubmitFlag(student.ID, dto.SubmitFlagRequest{Flag: "embsec{shared}"})
	require.NoError(t, err)
	require.Equal(t, "First", resp.Name)
}
