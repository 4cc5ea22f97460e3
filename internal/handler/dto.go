package handler

import "github.com/ukaji3/xltutor-go/pkg/xltutor/models"

type EvaluateSheetRequest struct {
	Config models.SheetConfig `json:"config"`
	// Edits maps address to raw input, applied in address order.
	Edits map[string]string `json:"edits"`
}

type CheckChallengeRequest struct {
	Edits map[string]string `json:"edits"`
}

type FormulaCheckRequest struct {
	ChallengeID string `json:"challengeId" binding:"required"`
	Index       int    `json:"index" binding:"min=0"`
	Input       string `json:"input"`
}

type ProgressRequest struct {
	Value string `json:"value"`
}

type ProgressResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
