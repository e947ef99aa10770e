package service

import (
	"encoding/json"
	"time"

	"canvas-studio-be/internal/pkg/logger"
	"canvas-studio-be/pkg/canvas"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ChangeEventMessage is the wire form of a store change event on the
// in-process bus.
type ChangeEventMessage struct {
	WorkspaceId string    `json:"workspace_id"`
	Op          string    `json:"op"`
	CanvasId    string    `json:"canvas_id,omitempty"`
	NodeId      string    `json:"node_id,omitempty"`
	At          time.Time `json:"at"`
}

type IPublisherService interface {
	PublishChange(workspaceID string, event canvas.ChangeEvent)
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
	logger    logger.ILogger
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		logger:    log,
	}
}

// PublishChange puts a workspace-tagged change event on the bus. Failures are
// logged and dropped; observers are best-effort by contract.
func (p *publisherService) PublishChange(workspaceID string, event canvas.ChangeEvent) {
	payload, err := json.Marshal(ChangeEventMessage{
		WorkspaceId: workspaceID,
		Op:          string(event.Op),
		CanvasId:    event.CanvasID,
		NodeId:      event.NodeID,
		At:          event.At,
	})
	if err != nil {
		p.logger.Error("PublisherService", "Failed to marshal change event", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubSub.Publish(p.topicName, msg); err != nil {
		p.logger.Error("PublisherService", "Failed to publish change event", map[string]interface{}{"error": err.Error()})
	}
}
