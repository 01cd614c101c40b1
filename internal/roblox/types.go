package roblox

// UserProfile is the slice of the Roblox user record this service cares
// about. Usernames are snapshotted into promotion requests at submission.
type UserProfile struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// RankChangeOutcome is the typed result of a rank-change attempt. Failures
// are values, not errors: the workflow folds them into a request's terminal
// fields rather than propagating them as faults.
type RankChangeOutcome struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
}

// groupRolesResponse mirrors the groups API payload for a user's roles.
type groupRolesResponse struct {
	Data []struct {
		Group struct {
			ID int64 `json:"id"`
		} `json:"group"`
		Role struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Rank int    `json:"rank"`
		} `json:"role"`
	} `json:"data"`
}
