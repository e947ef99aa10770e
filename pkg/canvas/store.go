package canvas

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrIndexOutOfRange is returned by ReorderNodePreviews when either index does
// not address an existing entry. Reordering never silently corrupts the list.
var ErrIndexOutOfRange = errors.New("node preview index out of range")

// ChangeOp identifies which mutation produced a ChangeEvent.
type ChangeOp string

const (
	OpAddNodePreview     ChangeOp = "ADD_NODE_PREVIEW"
	OpSetNodePreview     ChangeOp = "SET_NODE_PREVIEW"
	OpRemoveNodePreview  ChangeOp = "REMOVE_NODE_PREVIEW"
	OpUpdateNodePreview  ChangeOp = "UPDATE_NODE_PREVIEW"
	OpReorderNodePreview ChangeOp = "REORDER_NODE_PREVIEWS"
	OpDeleteCanvasData   ChangeOp = "DELETE_CANVAS_DATA"
	OpThreadAppend       ChangeOp = "THREAD_APPEND"
	OpThreadRemove       ChangeOp = "THREAD_REMOVE"
	OpThreadClear        ChangeOp = "THREAD_CLEAR"
	OpSetFlag            ChangeOp = "SET_FLAG"
	OpClearState         ChangeOp = "CLEAR_STATE"
)

// ChangeEvent is emitted to subscribers after every effective mutation.
// Consumers that cannot keep up have events dropped rather than blocking the
// mutation path.
type ChangeEvent struct {
	Op       ChangeOp  `json:"op"`
	CanvasID string    `json:"canvasId,omitempty"`
	NodeID   string    `json:"nodeId,omitempty"`
	At       time.Time `json:"at"`
}

const subscriberBuffer = 64

// Store owns the UI state for zero or more open canvases. It is created by the
// application container and handed to consumers explicitly; there is no
// package-level instance. All mutations are synchronous and serialized by an
// internal lock, mirroring the single-threaded event model of the editor.
type Store struct {
	mu sync.RWMutex

	configs              map[string]*CanvasConfig
	linearThreadMessages []LinearThreadMessage

	currentCanvasID   string
	operatingNodeID   string
	tplConfig         *TplConfig
	showPreview       bool
	showLaunchpad     bool
	showEdges         bool
	showSlideshow     bool
	showLinearThread  bool
	clickToPreview    bool
	autoLayout        bool
	nodeSizeMode      NodeSizeMode
	canvasPage        map[string]string
	canvasTitle       map[string]string
	canvasInitialized map[string]bool

	subMu   sync.Mutex
	subs    map[int]chan ChangeEvent
	nextSub int

	now func() time.Time
}

// NewStore returns a Store holding the documented defaults.
func NewStore() *Store {
	s := &Store{
		subs: make(map[int]chan ChangeEvent),
		now:  time.Now,
	}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.configs = make(map[string]*CanvasConfig)
	s.linearThreadMessages = nil
	s.currentCanvasID = ""
	s.operatingNodeID = ""
	s.tplConfig = nil
	s.showPreview = true
	s.showLaunchpad = false
	s.showEdges = true
	s.showSlideshow = false
	s.showLinearThread = false
	s.clickToPreview = true
	s.autoLayout = false
	s.nodeSizeMode = NodeSizeMedium
	s.canvasPage = make(map[string]string)
	s.canvasTitle = make(map[string]string)
	s.canvasInitialized = make(map[string]bool)
}

// Subscribe registers an observer for change events. The returned cancel
// function must be called when the observer is done; it closes the channel.
func (s *Store) Subscribe() (<-chan ChangeEvent, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan ChangeEvent, subscriberBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (s *Store) notify(event ChangeEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
			// Subscriber is not draining; drop instead of blocking the mutation.
		}
	}
}

// configLocked returns the config for canvasID, creating it lazily.
func (s *Store) configLocked(canvasID string) *CanvasConfig {
	cfg, ok := s.configs[canvasID]
	if !ok {
		cfg = &CanvasConfig{NodePreviews: []NodePreview{}}
		s.configs[canvasID] = cfg
	}
	return cfg
}

func indexOfPreview(previews []NodePreview, id string) int {
	for i := range previews {
		if previews[i].ID == id {
			return i
		}
	}
	return -1
}

// AddNodePreview inserts node into the canvas's preview rail.
//
// Duplicate IDs are a no-op. A pinned node is inserted after the last pinned
// entry (or at index 1 when the rail already has an entry, keeping an unpinned
// entry in the primary slot). An unpinned node displaces any existing unpinned
// entry and takes index 0.
func (s *Store) AddNodePreview(canvasID string, node NodePreview) {
	s.mu.Lock()
	cfg := s.configLocked(canvasID)

	if indexOfPreview(cfg.NodePreviews, node.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	if node.Kind == "" {
		node.Kind = KindUnknown
	}
	node.Data = cloneAnyMap(node.Data)

	if node.IsPinned {
		// After the last pinned entry, so pinned entries keep their
		// insertion-relative order.
		lastPinned := -1
		for i := range cfg.NodePreviews {
			if cfg.NodePreviews[i].IsPinned {
				lastPinned = i
			}
		}
		switch {
		case lastPinned >= 0:
			cfg.NodePreviews = insertPreview(cfg.NodePreviews, lastPinned+1, node)
		case len(cfg.NodePreviews) > 0:
			// Keep an existing unpinned entry in the primary slot.
			cfg.NodePreviews = insertPreview(cfg.NodePreviews, 1, node)
		default:
			cfg.NodePreviews = insertPreview(cfg.NodePreviews, 0, node)
		}
	} else {
		kept := cfg.NodePreviews[:0]
		for _, p := range cfg.NodePreviews {
			if p.IsPinned {
				kept = append(kept, p)
			}
		}
		cfg.NodePreviews = insertPreview(kept, 0, node)
	}

	cfg.LastUsedAt = s.now()
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: OpAddNodePreview, CanvasID: canvasID, NodeID: node.ID, At: time.Now()})
}

func insertPreview(previews []NodePreview, at int, node NodePreview) []NodePreview {
	previews = append(previews, NodePreview{})
	copy(previews[at+1:], previews[at:])
	previews[at] = node
	return previews
}

// SetNodePreview replaces the entry matching node.ID in place. An unpinned
// replacement targeting a slot other than the primary one removes the entry
// instead; non-pinned previews only live in the primary slot. Absent IDs are a
// no-op.
func (s *Store) SetNodePreview(canvasID string, node NodePreview) {
	s.mu.Lock()
	cfg, ok := s.configs[canvasID]
	if !ok {
		s.mu.Unlock()
		return
	}
	idx := indexOfPreview(cfg.NodePreviews, node.ID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	op := OpSetNodePreview
	if !node.IsPinned && idx != 0 {
		cfg.NodePreviews = append(cfg.NodePreviews[:idx], cfg.NodePreviews[idx+1:]...)
		op = OpRemoveNodePreview
	} else {
		if node.Kind == "" {
			node.Kind = KindUnknown
		}
		node.Data = cloneAnyMap(node.Data)
		cfg.NodePreviews[idx] = node
	}

	cfg.LastUsedAt = s.now()
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: op, CanvasID: canvasID, NodeID: node.ID, At: time.Now()})
}

// RemoveNodePreview filters the entry out by ID. Absent IDs are not an error.
func (s *Store) RemoveNodePreview(canvasID, nodeID string) {
	s.mu.Lock()
	cfg, ok := s.configs[canvasID]
	if !ok {
		s.mu.Unlock()
		return
	}
	idx := indexOfPreview(cfg.NodePreviews, nodeID)
	if idx >= 0 {
		cfg.NodePreviews = append(cfg.NodePreviews[:idx], cfg.NodePreviews[idx+1:]...)
	}
	cfg.LastUsedAt = s.now()
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: OpRemoveNodePreview, CanvasID: canvasID, NodeID: nodeID, At: time.Now()})
}

// UpdateNodePreview merges patch into the entry matching patch.ID. When
// patch.Data is present it is shallow-merged into the existing Data; otherwise
// the non-nil scalar fields overwrite the existing entry. Absent IDs are a
// no-op.
func (s *Store) UpdateNodePreview(canvasID string, patch NodePreviewPatch) {
	s.mu.Lock()
	cfg, ok := s.configs[canvasID]
	if !ok {
		s.mu.Unlock()
		return
	}
	idx := indexOfPreview(cfg.NodePreviews, patch.ID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	existing := &cfg.NodePreviews[idx]
	if patch.Data != nil {
		if existing.Data == nil {
			existing.Data = make(map[string]any, len(patch.Data))
		}
		for k, v := range patch.Data {
			existing.Data[k] = v
		}
	} else {
		if patch.Kind != nil {
			existing.Kind = *patch.Kind
		}
		if patch.IsPinned != nil {
			existing.IsPinned = *patch.IsPinned
		}
	}

	cfg.LastUsedAt = s.now()
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: OpUpdateNodePreview, CanvasID: canvasID, NodeID: patch.ID, At: time.Now()})
}

// ReorderNodePreviews moves the entry at sourceIndex to targetIndex, keeping
// every other relative position.
func (s *Store) ReorderNodePreviews(canvasID string, sourceIndex, targetIndex int) error {
	s.mu.Lock()
	cfg, ok := s.configs[canvasID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: canvas %q has no previews", ErrIndexOutOfRange, canvasID)
	}
	n := len(cfg.NodePreviews)
	if sourceIndex < 0 || sourceIndex >= n || targetIndex < 0 || targetIndex >= n {
		s.mu.Unlock()
		return fmt.Errorf("%w: source=%d target=%d len=%d", ErrIndexOutOfRange, sourceIndex, targetIndex, n)
	}

	moved := cfg.NodePreviews[sourceIndex]
	cfg.NodePreviews = append(cfg.NodePreviews[:sourceIndex], cfg.NodePreviews[sourceIndex+1:]...)
	cfg.NodePreviews = insertPreview(cfg.NodePreviews, targetIndex, moved)

	cfg.LastUsedAt = s.now()
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: OpReorderNodePreview, CanvasID: canvasID, NodeID: moved.ID, At: time.Now()})
	return nil
}

// DeleteCanvasData removes the canvas's entire configuration entry.
func (s *Store) DeleteCanvasData(canvasID string) {
	s.mu.Lock()
	delete(s.configs, canvasID)
	delete(s.canvasPage, canvasID)
	delete(s.canvasTitle, canvasID)
	delete(s.canvasInitialized, canvasID)
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: OpDeleteCanvasData, CanvasID: canvasID, At: time.Now()})
}

// Config returns a copy of the canvas's configuration.
func (s *Store) Config(canvasID string) (CanvasConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[canvasID]
	if !ok {
		return CanvasConfig{}, false
	}
	return CanvasConfig{
		NodePreviews: clonePreviews(cfg.NodePreviews),
		LastUsedAt:   cfg.LastUsedAt,
	}, true
}

// AddLinearThreadMessage appends msg to the thread log with a local creation
// timestamp. A missing ID is filled in.
func (s *Store) AddLinearThreadMessage(msg LinearThreadMessage) LinearThreadMessage {
	s.mu.Lock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = s.now()
	msg.Payload = cloneAnyMap(msg.Payload)
	s.linearThreadMessages = append(s.linearThreadMessages, msg)
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: OpThreadAppend, NodeID: msg.NodeID, At: time.Now()})
	return msg
}

// RemoveLinearThreadMessage filters the log by message ID.
func (s *Store) RemoveLinearThreadMessage(id string) {
	s.mu.Lock()
	kept := s.linearThreadMessages[:0]
	for _, m := range s.linearThreadMessages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.linearThreadMessages = kept
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: OpThreadRemove, At: time.Now()})
}

// RemoveLinearThreadMessageByNodeID filters the log by node ID.
func (s *Store) RemoveLinearThreadMessageByNodeID(nodeID string) {
	s.mu.Lock()
	kept := s.linearThreadMessages[:0]
	for _, m := range s.linearThreadMessages {
		if m.NodeID != nodeID {
			kept = append(kept, m)
		}
	}
	s.linearThreadMessages = kept
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: OpThreadRemove, NodeID: nodeID, At: time.Now()})
}

// ClearLinearThreadMessages empties the thread log.
func (s *Store) ClearLinearThreadMessages() {
	s.mu.Lock()
	s.linearThreadMessages = nil
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: OpThreadClear, At: time.Now()})
}

// LinearThreadMessages returns a copy of the thread log in insertion order.
func (s *Store) LinearThreadMessages() []LinearThreadMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneThreadMessages(s.linearThreadMessages)
}

// ClearState resets every field to its documented default.
func (s *Store) ClearState() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.notify(ChangeEvent{Op: OpClearState, At: time.Now()})
}
