package service

import (
	"context"

	"canvas-studio-be/internal/dto"
	"canvas-studio-be/internal/registry"
	"canvas-studio-be/pkg/canvas"
)

type IStateService interface {
	GetFlags(ctx context.Context, workspaceID string) (*dto.FlagsResponse, error)
	UpdateFlags(ctx context.Context, workspaceID string, req *dto.UpdateFlagsRequest) (*dto.FlagsResponse, error)
	ClearState(ctx context.Context, workspaceID string) error
}

type stateService struct {
	workspaces *registry.WorkspaceRegistry
}

func NewStateService(workspaces *registry.WorkspaceRegistry) IStateService {
	return &stateService{workspaces: workspaces}
}

func flagsToResponse(f canvas.Flags) *dto.FlagsResponse {
	res := &dto.FlagsResponse{
		CurrentCanvasId:   f.CurrentCanvasID,
		OperatingNodeId:   f.OperatingNodeID,
		ShowPreview:       f.ShowPreview,
		ShowLaunchpad:     f.ShowLaunchpad,
		ShowEdges:         f.ShowEdges,
		ShowSlideshow:     f.ShowSlideshow,
		ShowLinearThread:  f.ShowLinearThread,
		ClickToPreview:    f.ClickToPreview,
		AutoLayout:        f.AutoLayout,
		NodeSizeMode:      string(f.NodeSizeMode),
		CanvasPage:        f.CanvasPage,
		CanvasTitle:       f.CanvasTitle,
		CanvasInitialized: f.CanvasInitialized,
	}
	if f.TplConfig != nil {
		res.TplConfig = &dto.TplConfigRequest{
			TemplateId: f.TplConfig.TemplateID,
			Fields:     f.TplConfig.Fields,
		}
	}
	return res
}

func (s *stateService) GetFlags(ctx context.Context, workspaceID string) (*dto.FlagsResponse, error) {
	store, err := s.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return flagsToResponse(store.Flags()), nil
}

func (s *stateService) UpdateFlags(ctx context.Context, workspaceID string, req *dto.UpdateFlagsRequest) (*dto.FlagsResponse, error) {
	store, err := s.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if req.CurrentCanvasId != nil {
		store.SetCurrentCanvasID(*req.CurrentCanvasId)
	}
	if req.OperatingNodeId != nil {
		store.SetOperatingNodeID(*req.OperatingNodeId)
	}
	if req.TplConfig != nil {
		store.SetTplConfig(&canvas.TplConfig{
			TemplateID: req.TplConfig.TemplateId,
			Fields:     req.TplConfig.Fields,
		})
	}
	if req.ShowPreview != nil {
		store.SetShowPreview(*req.ShowPreview)
	}
	if req.ShowLaunchpad != nil {
		store.SetShowLaunchpad(*req.ShowLaunchpad)
	}
	if req.ShowEdges != nil {
		store.SetShowEdges(*req.ShowEdges)
	}
	if req.ShowSlideshow != nil {
		store.SetShowSlideshow(*req.ShowSlideshow)
	}
	if req.ShowLinearThread != nil {
		store.SetShowLinearThread(*req.ShowLinearThread)
	}
	if req.ClickToPreview != nil {
		store.SetClickToPreview(*req.ClickToPreview)
	}
	if req.AutoLayout != nil {
		store.SetAutoLayout(*req.AutoLayout)
	}
	if req.NodeSizeMode != nil {
		store.SetNodeSizeMode(canvas.NodeSizeMode(*req.NodeSizeMode))
	}

	return flagsToResponse(store.Flags()), nil
}

func (s *stateService) ClearState(ctx context.Context, workspaceID string) error {
	store, err := s.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.ClearState()
	return nil
}
