// Package handler exposes the tutor service over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.alis.build/alog"

	"github.com/ukaji3/xltutor-go/internal/service"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
)

type TutorHandler struct {
	svc service.TutorService
}

func NewTutorHandler(svc service.TutorService) *TutorHandler {
	return &TutorHandler{svc: svc}
}

// HandleHealth handles GET /api/health
func (h *TutorHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Message: "xltutor API is running"})
}

// HandleSampleData handles GET /api/xlookup/sample-data
func (h *TutorHandler) HandleSampleData(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.SampleData())
}

// HandleExecuteLookup handles POST /api/xlookup/execute
func (h *TutorHandler) HandleExecuteLookup(c *gin.Context) {
	var req models.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.svc.ExecuteLookup(c.Request.Context(), req))
}

// HandleEvaluateSheet handles POST /api/sheet/evaluate
func (h *TutorHandler) HandleEvaluateSheet(c *gin.Context) {
	var req EvaluateSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	res, err := h.svc.EvaluateSheet(c.Request.Context(), req.Config, req.Edits)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleListChallenges handles GET /api/challenges
func (h *TutorHandler) HandleListChallenges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"challenges": h.svc.Challenges()})
}

// HandleGetChallenge handles GET /api/challenges/:id
func (h *TutorHandler) HandleGetChallenge(c *gin.Context) {
	ch, err := h.svc.Challenge(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

// HandleCheckChallenge handles POST /api/challenges/:id/check
func (h *TutorHandler) HandleCheckChallenge(c *gin.Context) {
	var req CheckChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	res, err := h.svc.CheckChallenge(c.Request.Context(), c.Param("id"), req.Edits)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleCheckFormula handles POST /api/formula/check
func (h *TutorHandler) HandleCheckFormula(c *gin.Context) {
	var req FormulaCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	res, err := h.svc.CheckFormula(c.Request.Context(), req.ChallengeID, req.Index, req.Input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleGetProgress handles GET /api/progress/:key
func (h *TutorHandler) HandleGetProgress(c *gin.Context) {
	key := c.Param("key")
	v, err := h.svc.GetProgress(c.Request.Context(), key)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ProgressResponse{Key: key, Value: v})
}

// HandleSetProgress handles PUT /api/progress/:key
func (h *TutorHandler) HandleSetProgress(c *gin.Context) {
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	key := c.Param("key")
	if err := h.svc.SetProgress(c.Request.Context(), key, req.Value); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ProgressResponse{Key: key, Value: req.Value})
}

func (h *TutorHandler) fail(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		alog.Errorf(ctx, "%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
