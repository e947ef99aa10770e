package dto

// UpdateFlagsRequest carries a partial update of the global UI flags. Nil
// fields are left untouched; flag assignment itself is unvalidated besides the
// size-mode enum.
type UpdateFlagsRequest struct {
	CurrentCanvasId  *string           `json:"currentCanvasId"`
	OperatingNodeId  *string           `json:"operatingNodeId"`
	TplConfig        *TplConfigRequest `json:"tplConfig"`
	ShowPreview      *bool             `json:"showPreview"`
	ShowLaunchpad    *bool             `json:"showLaunchpad"`
	ShowEdges        *bool             `json:"showEdges"`
	ShowSlideshow    *bool             `json:"showSlideshow"`
	ShowLinearThread *bool             `json:"showLinearThread"`
	ClickToPreview   *bool             `json:"clickToPreview"`
	AutoLayout       *bool             `json:"autoLayout"`
	NodeSizeMode     *string           `json:"nodeSizeMode" validate:"omitempty,oneof=medium compact"`
}

type TplConfigRequest struct {
	TemplateId string         `json:"templateId" validate:"required"`
	Fields     map[string]any `json:"fields"`
}

type FlagsResponse struct {
	CurrentCanvasId   string            `json:"currentCanvasId"`
	OperatingNodeId   string            `json:"operatingNodeId"`
	TplConfig         *TplConfigRequest `json:"tplConfig,omitempty"`
	ShowPreview       bool              `json:"showPreview"`
	ShowLaunchpad     bool              `json:"showLaunchpad"`
	ShowEdges         bool              `json:"showEdges"`
	ShowSlideshow     bool              `json:"showSlideshow"`
	ShowLinearThread  bool              `json:"showLinearThread"`
	ClickToPreview    bool              `json:"clickToPreview"`
	AutoLayout        bool              `json:"autoLayout"`
	NodeSizeMode      string            `json:"nodeSizeMode"`
	CanvasPage        map[string]string `json:"canvasPage"`
	CanvasTitle       map[string]string `json:"canvasTitle"`
	CanvasInitialized map[string]bool   `json:"canvasInitialized"`
}
