package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.alis.build/alog"
)

// RequestIDHeader carries the per-request id on responses.
const RequestIDHeader = "X-Request-Id"

// RequestID tags each request with an id (kept when the client sent one)
// and logs its outcome.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		alog.Infof(c.Request.Context(), "[%s] %s %s %d %s",
			id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// NewRouter builds the gin engine with every /api route.
func NewRouter(h *TutorHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID())

	api := r.Group("/api")
	{
		api.GET("/health", h.HandleHealth)

		api.GET("/xlookup/sample-data", h.HandleSampleData)
		api.POST("/xlookup/execute", h.HandleExecuteLookup)

		api.POST("/sheet/evaluate", h.HandleEvaluateSheet)

		api.GET("/challenges", h.HandleListChallenges)
		api.GET("/challenges/:id", h.HandleGetChallenge)
		api.POST("/challenges/:id/check", h.HandleCheckChallenge)
		api.POST("/formula/check", h.HandleCheckFormula)

		api.GET("/progress/:key", h.HandleGetProgress)
		api.PUT("/progress/:key", h.HandleSetProgress)
	}
	return r
}
