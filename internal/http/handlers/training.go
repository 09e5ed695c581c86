package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/amelfit-backend/internal/http/response"
	"github.com/yungbote/amelfit-backend/internal/services"
)

type TrainingHandler struct {
	training services.TrainingService
}

func NewTrainingHandler(trainingService services.TrainingService) *TrainingHandler {
	return &TrainingHandler{training: trainingService}
}

// POST /api/programme/sessions
// body: { "week_id", "seance_id", "steps", "duration_minutes", "phases_completed" }
func (th *TrainingHandler) CompleteSession(c *gin.Context) {
	var req services.CompleteSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := th.training.CompleteSession(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/programme/sessions?limit=
func (th *TrainingHandler) ListSessions(c *gin.Context) {
	out, err := th.training.ListSessions(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/programme/stats
func (th *TrainingHandler) GetStats(c *gin.Context) {
	s, err := th.training.GetStats(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, s)
}

// GET /api/programme/weekly
func (th *TrainingHandler) Weekly(c *gin.Context) {
	days, err := th.training.WeeklyActivity(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, days)
}

// GET /api/admin/users/:id/stats/verify
func (th *TrainingHandler) VerifyStats(c *gin.Context) {
	id, ok := uuidParam(c, "id", "user_not_found")
	if !ok {
		return
	}
	v, err := th.training.VerifyStats(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, v)
}
