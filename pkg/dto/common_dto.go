package dto

type LimitQuery struct {
	Limit int `form:"limit" binding:"omitempty,max=500"`
}

type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

type JoinedResponse struct {
	Joined bool `json:"joined"`
}

type LeftResponse struct {
	Left bool `json:"left"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
