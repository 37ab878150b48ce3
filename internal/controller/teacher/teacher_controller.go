package teacher

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Flagroom/internal/dto"
	"github.com/lshigami/Flagroom/internal/service"
	"github.com/rs/zerolog/log"
)

type TeacherController struct {
	challengeService service.ChallengeService
	reviewService    service.SubmissionReviewService
}

func NewTeacherController(challengeService service.ChallengeService, reviewService service.SubmissionReviewService) *TeacherController {
	return &TeacherController{challengeService: challengeService, reviewService: reviewService}
}

// CreateChallenge godoc
// @Summary (Teacher) Create a new challenge
// @Description Stores a challenge with its flag encrypted server-side. Name and plaintext flag must be unique across all challenges.
// @Tags Teacher - Challenges
// @Accept json
// @Produce json
// @Param challenge body dto.CreateChallengeRequest true "Challenge data with plaintext flag"
// @Success 201 {object} dto.ChallengeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or malformed flag"
// @Failure 409 {object} dto.ErrorResponse "Duplicate name or flag"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/challenges [post]
func (c *TeacherController) CreateChallenge(ctx *gin.Context) {
	var req dto.CreateChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateChallenge: Failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := c.challengeService.CreateChallenge(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFlag):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Flag must start with " + service.FlagPrefix})
		case errors.Is(err, service.ErrDuplicateName), errors.Is(err, service.ErrDuplicateFlag):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		default:
			log.Error().Err(err).Str("name", req.Name).Msg("Failed to create challenge")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create challenge"})
		}
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetStudents godoc
// @Summary (Teacher) List students with their progress
// @Description Retrieve every student together with per-challenge completion status for the dashboard.
// @Tags Teacher - Students
// @Produce json
// @Success 200 {array} dto.StudentProgressDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/students [get]
func (c *TeacherController) GetStudents(ctx *gin.Context) {
	students, err := c.challengeService.GetStudentsWithProgress()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list students with progress")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve students"})
		return
	}
	ctx.JSON(http.StatusOK, students)
}

// GetSubmission godoc
// @Summary (Teacher) Inspect a pending submission
// @Description Retrieve a pending submission with its challenge and submitting student, for the review page.
// @Tags Teacher - Submissions
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} dto.SubmissionDetailResponse
// @Failure 404 {object} dto.ErrorResponse "Submission not found or already accepted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/submissions/{submission_id} [get]
func (c *TeacherController) GetSubmission(ctx *gin.Context) {
	id := ctx.Param("submission_id")

	resp, err := c.reviewService.GetSubmission(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Submission not found"})
			return
		}
		log.Error().Err(err).Str("submissionID", id).Msg("Failed to get submission")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve submission"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// AcceptSubmission godoc
// @Summary (Teacher) Accept a pending submission
// @Description Deletes the pending submission and marks the submitting student's completion COMPLETED, atomically.
// @Tags Teacher - Submissions
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} dto.CompletionResponse
// @Failure 404 {object} dto.ErrorResponse "Submission not found or already accepted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/submissions/{submission_id}/accept [post]
func (c *TeacherController) AcceptSubmission(ctx *gin.Context) {
	id := ctx.Param("submission_id")

	resp, err := c.reviewService.AcceptSubmission(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Submission not found"})
		case errors.Is(err, service.ErrCompletionMissing):
			log.Error().Str("submissionID", id).Msg("Accept aborted: completion row missing, submission kept for retry")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to accept submission"})
		default:
			log.Error().Err(err).Str("submissionID", id).Msg("Failed to accept submission")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to accept submission"})
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
