package dto

import "time"

type AddThreadMessageRequest struct {
	NodeId   string         `json:"nodeId" validate:"required"`
	ResultId string         `json:"resultId"`
	Payload  map[string]any `json:"payload"`
}

type ThreadMessageResponse struct {
	Id        string         `json:"id"`
	NodeId    string         `json:"nodeId"`
	ResultId  string         `json:"resultId"`
	CreatedAt time.Time      `json:"createdAt"`
	Payload   map[string]any `json:"payload,omitempty"`
}
