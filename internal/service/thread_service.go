package service

import (
	"context"

	"canvas-studio-be/internal/dto"
	"canvas-studio-be/internal/registry"
	"canvas-studio-be/pkg/canvas"
)

type IThreadService interface {
	GetMessages(ctx context.Context, workspaceID string) ([]*dto.ThreadMessageResponse, error)
	AddMessage(ctx context.Context, workspaceID string, req *dto.AddThreadMessageRequest) (*dto.ThreadMessageResponse, error)
	RemoveMessage(ctx context.Context, workspaceID, messageID string) error
	RemoveMessagesByNodeId(ctx context.Context, workspaceID, nodeID string) error
	ClearMessages(ctx context.Context, workspaceID string) error
}

type threadService struct {
	workspaces *registry.WorkspaceRegistry
}

func NewThreadService(workspaces *registry.WorkspaceRegistry) IThreadService {
	return &threadService{workspaces: workspaces}
}

func toThreadResponse(m canvas.LinearThreadMessage) *dto.ThreadMessageResponse {
	return &dto.ThreadMessageResponse{
		Id:        m.ID,
		NodeId:    m.NodeID,
		ResultId:  m.ResultID,
		CreatedAt: m.CreatedAt,
		Payload:   m.Payload,
	}
}

func (t *threadService) GetMessages(ctx context.Context, workspaceID string) ([]*dto.ThreadMessageResponse, error) {
	store, err := t.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	messages := store.LinearThreadMessages()
	result := make([]*dto.ThreadMessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, toThreadResponse(m))
	}
	return result, nil
}

func (t *threadService) AddMessage(ctx context.Context, workspaceID string, req *dto.AddThreadMessageRequest) (*dto.ThreadMessageResponse, error) {
	store, err := t.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	msg := store.AddLinearThreadMessage(canvas.LinearThreadMessage{
		NodeID:   req.NodeId,
		ResultID: req.ResultId,
		Payload:  req.Payload,
	})
	return toThreadResponse(msg), nil
}

func (t *threadService) RemoveMessage(ctx context.Context, workspaceID, messageID string) error {
	store, err := t.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.RemoveLinearThreadMessage(messageID)
	return nil
}

func (t *threadService) RemoveMessagesByNodeId(ctx context.Context, workspaceID, nodeID string) error {
	store, err := t.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.RemoveLinearThreadMessageByNodeID(nodeID)
	return nil
}

func (t *threadService) ClearMessages(ctx context.Context, workspaceID string) error {
	store, err := t.workspaces.Store(ctx, workspaceID)
	if err != nil {
		return err
	}
	store.ClearLinearThreadMessages()
	return nil
}
