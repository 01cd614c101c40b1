package models

import "time"

// Status is the lifecycle state of a promotion request. A request starts
// pending and moves exactly once to one of the terminal states.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusFailed
}

// PromotionRequest is the audit record for one promotion decision. Username
// fields are snapshots taken at submission time; they are not refreshed if
// the user later renames. Once the status leaves pending the record is
// immutable.
type PromotionRequest struct {
	ID                string     `json:"id"`
	TargetUserID      int64      `json:"target_user_id"`
	TargetUsername    string     `json:"target_username"`
	TargetRankID      int64      `json:"target_rank_id"`
	RequesterUserID   int64      `json:"requester_user_id"`
	RequesterUsername string     `json:"requester_username"`
	Event             string     `json:"event"`
	Status            Status     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	ProcessedAt       *time.Time `json:"processed_at"`
	ProcessedBy       *string    `json:"processed_by"`
	ResultMessage     *string    `json:"result_message"`
}

// Resolve records the terminal outcome of a request. It does not check the
// current status; that is the store's Execute validation responsibility.
func (r *PromotionRequest) Resolve(status Status, processedBy, message string, at time.Time) {
	r.Status = status
	r.ProcessedAt = &at
	r.ProcessedBy = &processedBy
	r.ResultMessage = &message
}

// Clone returns a deep copy so store callers can never mutate a stored
// record outside the store's locking.
func (r *PromotionRequest) Clone() *PromotionRequest {
	cp := *r
	if r.ProcessedAt != nil {
		t := *r.ProcessedAt
		cp.ProcessedAt = &t
	}
	if r.ProcessedBy != nil {
		s := *r.ProcessedBy
		cp.ProcessedBy = &s
	}
	if r.ResultMessage != nil {
		s := *r.ResultMessage
		cp.ResultMessage = &s
	}
	return &cp
}
