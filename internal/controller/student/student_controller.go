package student

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Flagroom/internal/dto"
	"github.com/lshigami/Flagroom/internal/middleware"
	"github.com/lshigami/Flagroom/internal/service"
	"github.com/rs/zerolog/log"
)

type StudentController struct {
	flagService      service.FlagService
	challengeService service.ChallengeService
}

func NewStudentController(flagService service.FlagService, challengeService service.ChallengeService) *StudentController {
	return &StudentController{flagService: flagService, challengeService: challengeService}
}

// SubmitFlag godoc
// @Summary Submit a flag for verification
// @Description Checks the submitted flag against every challenge and returns a review link on match. The response never reveals why a flag failed.
// @Tags listener
// @Accept json
// @Produce json
// @Param submission body dto.SubmitFlagRequest true "Flag submission"
// @Success 200 {object} dto.SubmitFlagResponse "Flag matched a challenge"
// @Failure 400 {object} dto.SubmitFlagResponse "Malformed body, invalid flag or no match"
// @Router /listener/submit [post]
func (c *StudentController) SubmitFlag(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.SubmitFlagResponse{Msg: "Failed"})
		return
	}

	var req dto.SubmitFlagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitFlag: Failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.SubmitFlagResponse{Msg: "Failed"})
		return
	}

	resp, err := c.flagService.SubmitFlag(user.ID, req)
	if err != nil {
		// The caller only ever sees "Failed"; the reason stays in the
		// logs so wrong guesses learn nothing about the challenge set.
		switch {
		case errors.Is(err, service.ErrInvalidFlag):
			log.Info().Uint("studentID", user.ID).Msg("SubmitFlag: Rejected flag without prefix")
		case errors.Is(err, service.ErrNoMatch):
			log.Info().Uint("studentID", user.ID).Msg("SubmitFlag: No challenge matched")
		default:
			log.Error().Err(err).Uint("studentID", user.ID).Msg("SubmitFlag: Verification failed")
		}
		ctx.JSON(http.StatusBadRequest, dto.SubmitFlagResponse{Msg: "Failed"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetAllChallenges godoc
// @Summary List challenges
// @Description Retrieve all challenges with their public fields. Encrypted flags are never included.
// @Tags challenges
// @Produce json
// @Success 200 {array} dto.ChallengeResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /challenges [get]
func (c *StudentController) GetAllChallenges(ctx *gin.Context) {
	challenges, err := c.challengeService.GetAllChallenges()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list challenges")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve challenges"})
		return
	}
	ctx.JSON(http.StatusOK, challenges)
}
