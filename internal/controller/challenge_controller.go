package controller

import (
	"errors"
	"net/http"
	"strconv"

	"echobreak_backend/internal/model"
	"echobreak_backend/internal/service"
	"echobreak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
}

func NewChallengeController(challengeService *service.ChallengeService) *ChallengeController {
	return &ChallengeController{ChallengeService: challengeService}
}

// GetToday godoc
// @Summary Today's challenge
// @Description Returns the persisted selection for the current UTC day, computing one if absent. Calling twice the same day returns the same challenge.
// @Tags challenges
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/challenges/today [get]
func (c *ChallengeController) GetToday(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	picked, err := c.ChallengeService.GetTodayChallenge(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if picked == nil {
		// Nothing eligible is a valid outcome, not a failure.
		util.Success(ctx, gin.H{"challenge": nil, "message": "no challenge available"})
		return
	}

	util.Success(ctx, gin.H{
		"challenge": picked.Challenge,
		"reasons":   picked.Reasons,
	})
}

// GetRecommendations godoc
// @Summary Ranked challenge recommendations
// @Tags challenges
// @Produce json
// @Security ApiKeyAuth
// @Param count query int false "number of suggestions" default(3)
// @Success 200 {object} util.Response
// @Router /api/challenges/recommendations [get]
func (c *ChallengeController) GetRecommendations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	count, _ := strconv.Atoi(ctx.DefaultQuery("count", "3"))
	if count < 1 || count > 20 {
		count = 3
	}

	recommendations, err := c.ChallengeService.GetRecommendations(claims.UserID, count)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, recommendations)
}

// swagger:model SubmitChallengeRequest
type SubmitChallengeRequest struct {
	IsCorrect        bool `json:"isCorrect"`
	TimeSpentSeconds int  `json:"timeSpentSeconds" binding:"min=0"`
}

// Submit godoc
// @Summary Submit a challenge response
// @Tags challenges
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "challenge id"
// @Param body body SubmitChallengeRequest true "response outcome"
// @Success 201 {object} util.Response
// @Router /api/challenges/{id}/submit [post]
func (c *ChallengeController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	challengeID := util.MustParseUint(ctx.Param("id"))
	if challengeID == 0 {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}

	var req SubmitChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.ChallengeService.SubmitChallenge(claims.UserID, challengeID, req.IsCorrect, req.TimeSpentSeconds)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrChallengeNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrChallengeInactive):
			util.Error(ctx, http.StatusConflict, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, submission)
}

// swagger:model ChallengeRequest
type ChallengeRequest struct {
	Type                 model.ChallengeType `json:"type" binding:"required"`
	Difficulty           model.Difficulty    `json:"difficulty" binding:"required"`
	Title                string              `json:"title" binding:"required"`
	Prompt               string              `json:"prompt"`
	Content              string              `json:"content"`
	EstimatedTimeMinutes int                 `json:"estimatedTimeMinutes"`
	IsActive             *bool               `json:"isActive"`
}

// Create godoc
// @Summary Create a challenge
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ChallengeRequest true "challenge definition"
// @Success 201 {object} util.Response
// @Router /api/admin/challenges [post]
func (c *ChallengeController) Create(ctx *gin.Context) {
	var req ChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge := challengeFromRequest(&req)
	if err := c.ChallengeService.CreateChallenge(challenge); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, challenge)
}

// Update godoc
// @Summary Update a challenge
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "challenge id"
// @Param body body ChallengeRequest true "challenge definition"
// @Success 200 {object} util.Response
// @Router /api/admin/challenges/{id} [put]
func (c *ChallengeController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}

	var req ChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.ChallengeService.UpdateChallenge(id, challengeFromRequest(&req))
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, challenge)
}

// Delete godoc
// @Summary Delete a challenge
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "challenge id"
// @Success 200 {object} util.Response
// @Router /api/admin/challenges/{id} [delete]
func (c *ChallengeController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}

	if err := c.ChallengeService.DeleteChallenge(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"id": id})
}

func challengeFromRequest(req *ChallengeRequest) *model.Challenge {
	challenge := &model.Challenge{
		Type:                 req.Type,
		Difficulty:           req.Difficulty,
		Title:                req.Title,
		Prompt:               req.Prompt,
		EstimatedTimeMinutes: req.EstimatedTimeMinutes,
		IsActive:             true,
	}
	if req.Content != "" {
		challenge.Content = []byte(req.Content)
	}
	if req.IsActive != nil {
		challenge.IsActive = *req.IsActive
	}
	return challenge
}
