package httptransport

import "rankgate/internal/promotion/models"

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type submitResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

type pendingResponse struct {
	Success         bool                       `json:"success"`
	PendingRequests []*models.PromotionRequest `json:"pending_requests"`
	Count           int                        `json:"count"`
}

// resolutionResponse is shared by approve and reject. Success mirrors the
// terminal status, not the HTTP outcome: a recorded upstream failure is a
// 200 with success=false.
type resolutionResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Request *models.PromotionRequest `json:"request"`
}

type statusResponse struct {
	Success bool                     `json:"success"`
	Request *models.PromotionRequest `json:"request"`
}

type directPromoteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
