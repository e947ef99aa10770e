package service

import (
	"context"

	"canvas-studio-be/internal/dto"
	"canvas-studio-be/internal/registry"
	"canvas-studio-be/pkg/canvas"
)

type ICanvasService interface {
	GetConfig(ctx context.Context, workspaceID, canvasID string) (*dto.CanvasConfigResponse, error)
	AddNodePreview(ctx context.Context, workspaceID, canvasID string, req *dto.AddNodePreviewRequest) error
	SetNodePreview(ctx context.Context, workspaceID, canvasID string, req *dto.SetNodePreviewRequest) error
	UpdateNodePreview(ctx context.Context, workspaceID, canvasID string, req *dto.UpdateNodePreviewRequest) error
	RemoveNodePreview(ctx context.Context, workspaceID, canvasID, nodeID string) error
	ReorderNodePreviews(ctx context.Context, workspaceID, canvasID string, req *dto.ReorderNodePreviewsRequest) error
	DeleteCanvasData(ctx context.Context, workspaceID, canvasID string) error
	SetCanvasPage(ctx context.Context, workspaceID, canvasID, pageID string) error
	SetCanvasTitle(ctx context.Context, workspaceID, canvasID, title string) error
	SetCanvasInitialized(ctx context.Context, workspaceID, canvasID string, initialized bool) error
}

type canvasService struct {
	workspaces *registry.WorkspaceRegistry
}

func NewCanvasService(workspaces *registry.WorkspaceRegistry) ICanvasService {
	return &canvasService{workspaces: workspaces}
}

func (c *canvasService) GetConfig(ctx context.Context, workspaceID, canvasID string) (*dto.CanvasConfigResponse, error) {
	store, err := c.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	cfg, ok := store.Config(canvasID)
	if !ok {
		return nil, nil // Not found
	}

	res := dto.CanvasConfigResponse{
		CanvasId:     canvasID,
		NodePreviews: make([]dto.NodePreviewResponse, 0, len(cfg.NodePreviews)),
		LastUsedAt:   cfg.LastUsedAt,
	}
	for _, p := range cfg.NodePreviews {
		res.NodePreviews = append(res.NodePreviews, dto.NodePreviewResponse{
			Id:       p.ID,
			Kind:     string(p.Kind),
			Data:     p.Data,
			IsPinned: p.IsPinned,
		})
	}
	return &res, nil
}

func (c *canvasService) AddNodePreview(ctx context.Context, workspaceID, canvasID string, req *dto.AddNodePreviewRequest) error {
	store, err := c.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.AddNodePreview(canvasID, canvas.NodePreview{
		ID:       req.Id,
		Kind:     canvas.PayloadKind(req.Kind),
		Data:     req.Data,
		IsPinned: req.IsPinned,
	})
	return nil
}

func (c *canvasService) SetNodePreview(ctx context.Context, workspaceID, canvasID string, req *dto.SetNodePreviewRequest) error {
	store, err := c.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.SetNodePreview(canvasID, canvas.NodePreview{
		ID:       req.Id,
		Kind:     canvas.PayloadKind(req.Kind),
		Data:     req.Data,
		IsPinned: req.IsPinned,
	})
	return nil
}

func (c *canvasService) UpdateNodePreview(ctx context.Context, workspaceID, canvasID string, req *dto.UpdateNodePreviewRequest) error {
	store, err := c.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}

	patch := canvas.NodePreviewPatch{
		ID:       req.Id,
		IsPinned: req.IsPinned,
		Data:     req.Data,
	}
	if req.Kind != nil {
		k := canvas.PayloadKind(*req.Kind)
		patch.Kind = &k
	}
	store.UpdateNodePreview(canvasID, patch)
	return nil
}

func (c *canvasService) RemoveNodePreview(ctx context.Context, workspaceID, canvasID, nodeID string) error {
	store, err := c.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.RemoveNodePreview(canvasID, nodeID)
	return nil
}

func (c *canvasService) ReorderNodePreviews(ctx context.Context, workspaceID, canvasID string, req *dto.ReorderNodePreviewsRequest) error {
	store, err := c.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	return store.ReorderNodePreviews(canvasID, *req.SourceIndex, *req.TargetIndex)
}

func (c *canvasService) DeleteCanvasData(ctx context.Context, workspaceID, canvasID string) error {
	store, err := c.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.DeleteCanvasData(canvasID)
	return nil
}

func (c *canvasService) SetCanvasPage(ctx context.Context, workspaceID, canvasID, pageID string) error {
	store, err := c.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.SetCanvasPage(canvasID, pageID)
	return nil
}

func (c *canvasService) SetCanvasTitle(ctx context.Context, workspaceID, canvasID, title string) error {
	store, err := c.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.SetCanvasTitle(canvasID, title)
	return nil
}

func (c *canvasService) SetCanvasInitialized(ctx context.Context, workspaceID, canvasID string, initialized bool) error {
	store, err := c.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.SetCanvasInitialized(canvasID, initialized)
	return nil
}
