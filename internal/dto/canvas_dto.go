package dto

import "time"

type AddNodePreviewRequest struct {
	Id       string         `json:"id" validate:"required"`
	Kind     string         `json:"kind"`
	Data     map[string]any `json:"data"`
	IsPinned bool           `json:"isPinned"`
}

type SetNodePreviewRequest struct {
	Id       string         // from path
	Kind     string         `json:"kind"`
	Data     map[string]any `json:"data"`
	IsPinned bool           `json:"isPinned"`
}

type UpdateNodePreviewRequest struct {
	Id       string         // from path
	Kind     *string        `json:"kind"`
	IsPinned *bool          `json:"isPinned"`
	Data     map[string]any `json:"data"`
}

// Indices are pointers so that index 0 survives required-validation.
type ReorderNodePreviewsRequest struct {
	SourceIndex *int `json:"sourceIndex" validate:"required"`
	TargetIndex *int `json:"targetIndex" validate:"required"`
}

type NodePreviewResponse struct {
	Id       string         `json:"id"`
	Kind     string         `json:"kind"`
	Data     map[string]any `json:"data,omitempty"`
	IsPinned bool           `json:"isPinned"`
}

type CanvasConfigResponse struct {
	CanvasId     string                `json:"canvasId"`
	NodePreviews []NodePreviewResponse `json:"nodePreviews"`
	LastUsedAt   time.Time             `json:"lastUsedAt"`
}

type SetCanvasPageRequest struct {
	PageId string `json:"pageId" validate:"required"`
}

type SetCanvasTitleRequest struct {
	Title string `json:"title" validate:"required"`
}

type SetCanvasInitializedRequest struct {
	Initialized *bool `json:"initialized" validate:"required"`
}
