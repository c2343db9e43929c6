package controller

import (
	"errors"
	"io"
	"time"

	"echobreak_backend/internal/service"
	"echobreak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	ActivityService *service.ActivityService
}

func NewActivityController(activityService *service.ActivityService) *ActivityController {
	return &ActivityController{ActivityService: activityService}
}

// swagger:model ReadingActivityRequest
type ReadingActivityRequest struct {
	ArticleID  string  `json:"articleId" binding:"required"`
	Source     string  `json:"source"`
	BiasRating float64 `json:"biasRating" binding:"min=-3,max=3"`
}

// RecordReading godoc
// @Summary Record a reading event
// @Description Logs one read article with its bias rating on the -3..+3 scale. Feeds the diversity component of the echo score.
// @Tags activity
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ReadingActivityRequest true "reading event"
// @Success 201 {object} util.Response
// @Router /api/activity/reading [post]
func (c *ActivityController) RecordReading(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReadingActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activity, err := c.ActivityService.RecordReading(claims.UserID, req.ArticleID, req.Source, req.BiasRating)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, activity)
}

// swagger:model SessionRequest
type SessionRequest struct {
	SessionStart *time.Time `json:"sessionStart"`
}

// StartSession godoc
// @Summary Open a learning session
// @Description Records the start of a study session. Omitted start times default to now. Feeds the consistency component of the echo score.
// @Tags activity
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SessionRequest false "session start"
// @Success 201 {object} util.Response
// @Router /api/activity/sessions [post]
func (c *ActivityController) StartSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	// The body is optional; an empty request opens a session starting now.
	var req SessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return
	}

	start := time.Time{}
	if req.SessionStart != nil {
		start = *req.SessionStart
	}

	session, err := c.ActivityService.StartSession(claims.UserID, start)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, session)
}
