package controller

import (
	"errors"
	"net/http"
	"strconv"

	"echobreak_backend/internal/service"
	"echobreak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EchoScoreController struct {
	EchoScoreService *service.EchoScoreService
}

func NewEchoScoreController(echoScoreService *service.EchoScoreService) *EchoScoreController {
	return &EchoScoreController{EchoScoreService: echoScoreService}
}

// Get godoc
// @Summary Current echo score
// @Description Computes the live composite score without persisting a snapshot.
// @Tags echo-score
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.EchoScoreResult}
// @Router /api/echo-score [get]
func (c *EchoScoreController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.EchoScoreService.Calculate(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Calculate godoc
// @Summary Calculate and persist today's echo score
// @Description Saves a snapshot and updates the live score. Limited to one persisted calculation per user per UTC day.
// @Tags echo-score
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.EchoScoreResult}
// @Failure 409 {object} util.Response
// @Router /api/echo-score/calculate [post]
func (c *EchoScoreController) Calculate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.EchoScoreService.CalculateDaily(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAlreadyCalculated) {
			util.Error(ctx, http.StatusConflict, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// History godoc
// @Summary Echo score history
// @Tags echo-score
// @Produce json
// @Security ApiKeyAuth
// @Param days query int false "trailing window in days" default(30)
// @Success 200 {object} util.Response
// @Router /api/echo-score/history [get]
func (c *EchoScoreController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	snapshots, err := c.EchoScoreService.History(claims.UserID, days)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"days": days, "snapshots": snapshots})
}

// RecalculateAll godoc
// @Summary Recompute every user's echo score
// @Description Admin batch job. Per-user failures are reported, not fatal.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.RecalculationReport}
// @Router /api/admin/echo-score/recalculate [post]
func (c *EchoScoreController) RecalculateAll(ctx *gin.Context) {
	report, err := c.EchoScoreService.RecalculateAll(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}
