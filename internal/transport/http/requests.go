package httptransport

import (
	"encoding/json"

	dErrors "rankgate/pkg/domain-errors"
)

// submitRequest carries a promotion submission. User and rank ids are
// numeric in the moderation tool's payloads.
type submitRequest struct {
	TargetUserID    int64  `json:"target_user_id"`
	TargetRankID    int64  `json:"target_rank_id"`
	RequesterUserID int64  `json:"requester_user_id"`
	Event           string `json:"event"`
}

// actorID is a free-form actor identifier. The moderation tool sends user
// ids numerically like every other *_user_id field, but processed_by is a
// string, so both JSON forms are accepted and coerced.
type actorID string

func (a *actorID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = actorID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "actor id must be a string or number")
	}
	*a = actorID(n.String())
	return nil
}

// approveRequest is the optional body of an approval. A missing body or
// field defaults the actor to "system".
type approveRequest struct {
	ApproverUserID actorID `json:"approver_user_id"`
}

// rejectRequest is the optional body of a rejection.
type rejectRequest struct {
	RejectorUserID actorID `json:"rejector_user_id"`
	Reason         string  `json:"reason"`
}

type directPromoteRequest struct {
	TargetUserID    int64 `json:"target_user_id"`
	TargetRankID    int64 `json:"target_rank_id"`
	RequesterUserID int64 `json:"requester_user_id"`
}
