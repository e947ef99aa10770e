package service

import (
	"context"
	"encoding/json"
	"time"

	"canvas-studio-be/internal/pkg/logger"
	"canvas-studio-be/internal/websocket"
	"canvas-studio-be/pkg/canvas"
	"canvas-studio-be/pkg/events"
	pktNats "canvas-studio-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ISyncService fans store change events out to interested parties: the
// WebSocket hub for connected editors, and NATS for other services.
type ISyncService interface {
	Sync(ctx context.Context) error
}

type syncService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
	natsPub   *pktNats.Publisher
	logger    logger.ILogger
}

func NewSyncService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) ISyncService {
	return &syncService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		natsPub:   natsPub,
		logger:    log,
	}
}

// Sync subscribes to the in-process bus and runs until ctx is done.
func (s *syncService) Sync(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg.Payload)
			msg.Ack()
		}
	}()

	return nil
}

func (s *syncService) processMessage(ctx context.Context, payload []byte) {
	var ev ChangeEventMessage
	if err := json.Unmarshal(payload, &ev); err != nil {
		s.logger.Error("SyncService", "Malformed change event on bus", map[string]interface{}{"error": err.Error()})
		return
	}

	// 1. Push to connected editors of this workspace.
	s.hub.Broadcast(ev.WorkspaceId, payload)

	// 2. Forward to the external bus, if configured.
	if s.natsPub != nil {
		changeEvent := canvas.ChangeEvent{
			Op:       canvas.ChangeOp(ev.Op),
			CanvasID: ev.CanvasId,
			NodeID:   ev.NodeId,
			At:       ev.At,
		}
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := s.natsPub.Publish(pubCtx, events.NewCanvasChangeEvent(ev.WorkspaceId, changeEvent)); err != nil {
			s.logger.Warn("SyncService", "Failed to forward event to NATS", map[string]interface{}{"error": err.Error()})
		}
		cancel()
	}
}
