package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lshigami/Flagroom/internal/model"
	"github.com/lshigami/Flagroom/internal/repository"
)

func newReviewService(db *gorm.DB) SubmissionReviewService {
	return NewSubmissionReviewService(repository.NewSubmissionRepository(db), db)
}

func createCompletion(t *testing.T, db *gorm.DB, userID, challengeID uint) {
	t.Helper()
	require.NoError(t, db.Create(&model.UserChallengeCompletion{
		UserID:      userID,
		ChallengeID: challengeID,
		Status:      model.CompletionNotStarted,
	}).Error)
}

func createSubmission(t *testing.T, db *gorm.DB, studentID, challengeID uint) *model.Submission {
	t.Helper()
	submission := model.Submission{ID: uuid.NewString(), StudentID: studentID, ChallengeID: challengeID}
	require.NoError(t, db.Create(&submission).Error)
	return &submission
}

func TestGetSubmissionIncludesChallengeAndStudent(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	student := createStudent(t, db, "Alice")
	warmup := createChallenge(t, db, sealer, "Warmup", "embsec{hello}")
	submission := createSubmission(t, db, student.ID, warmup.ID)
	svc := newReviewService(db)

	resp, err := svc.GetSubmission(submission.ID)
	require.NoError(t, err)
	require.Equal(t, submission.ID, resp.ID)
	require.Equal(t, "Warmup", resp.Challenge.Name)
	require.Equal(t, warmup.Description, resp.Challenge.Description)
	require.Equal(t, "Alice", resp.Student.Name)
}

func TestGetSubmissionUnknownIDReturnsNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	_, err := svc.GetSubmission(uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptSubmissionCompletesAndDeletes(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	student := createStudent(t, db, "Alice")
	warmup := createChallenge(t, db, sealer, "Warmup", "embsec{hello}")
	createCompletion(t, db, student.ID, warmup.ID)
	submission := createSubmission(t, db, student.ID, warmup.ID)
	svc := newReviewService(db)

	resp, err := svc.AcceptSubmission(submission.ID)
	require.NoError(t, err)
	require.Equal(t, student.ID, resp.UserID)
	require.Equal(t, warmup.ID, resp.ChallengeID)
	require.Equal(t, model.CompletionCompleted, resp.Status)

	var completion model.UserChallengeCompletion
	require.NoError(t, db.Where("user_id = ? AND challenge_id = ?", student.ID, warmup.ID).First(&completion).Error)
	require.Equal(t, model.CompletionCompleted, completion.Status)

	_, err = svc.GetSubmission(submission.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptSubmissionUnknownIDLeavesCompletionsUntouched(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	student := createStudent(t, db, "Alice")
	warmup := createChallenge(t, db, sealer, "Warmup", "embsec{hello}")
	createCompletion(t, db, student.ID, warmup.ID)
	svc := newReviewService(db)

	_, err := svc.AcceptSubmission(uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)

	var completion model.UserChallengeCompletion
	require.NoError(t, db.Where("user_id = ? AND challenge_id = ?", student.ID, warmup.ID).First(&completion).Error)
	require.Equal(t, model.CompletionNotStarted, completion.Status)
}

func TestAcceptSubmissionAlreadyAcceptedReturnsNotFound(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	student := createStudent(t, db, "Alice")
	warmup := createChallenge(t, db, sealer, "Warmup", "embsec{hello}")
	createCompletion(t, db, student.ID, warmup.ID)
	submission := createSubmission(t, db, student.ID, warmup.ID)
	svc := newReviewService(db)

	_, err := svc.AcceptSubmission(submission.ID)
	require.NoError(t, err)

	_, err = svc.AcceptSubmission(submission.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptSubmissionMissingCompletionKeepsSubmission(t *testing.T) {
	db := setupTestDB(t)
	sealer := newTestSealer(t)
	student := createStudent(t, db, "Alice")
	warmup := createChallenge(t, db, sealer, "Warmup", "embsec{hello}")
	// No completion row seeded: the accept must fail and roll back so
	// the verified submission is not lost.
	submission := createSubmission(t, db, student.ID, warmup.ID)
	svc := newReviewService(db)

	_, err := svc.AcceptSubmission(submission.ID)
	require.ErrorIs(t, err, ErrCompletionMissing)

	var count int64
	require.NoError(t, db.Model(&model.Submission{}).Where("id = ?", submission.ID).Count(&count).Error)
	require.EqualValues(t, 1, count, "submission must survive a failed accept for retry")
}
