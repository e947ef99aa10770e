package canvas

// Snapshot is the persisted subset of the store. Fields outside this struct
// (operating node, template modal state, per-canvas initialized flags, preview
// pane and auto-layout toggles) always start at their defaults after a restore.
type Snapshot struct {
	Config               map[string]CanvasConfig `json:"config"`
	CurrentCanvasID      string                  `json:"currentCanvasId"`
	ShowEdges            bool                    `json:"showEdges"`
	ShowLaunchpad        bool                    `json:"showLaunchpad"`
	ClickToPreview       bool                    `json:"clickToPreview"`
	NodeSizeMode         NodeSizeMode            `json:"nodeSizeMode"`
	ShowLinearThread     bool                    `json:"showLinearThread"`
	LinearThreadMessages []LinearThreadMessage   `json:"linearThreadMessages"`
	ShowSlideshow        bool                    `json:"showSlideshow"`
	CanvasPage           map[string]string       `json:"canvasPage"`
	CanvasTitle          map[string]string       `json:"canvasTitle"`
}

// Snapshot copies the persisted subset out of the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Config:           make(map[string]CanvasConfig, len(s.configs)),
		CurrentCanvasID:  s.currentCanvasID,
		ShowEdges:        s.showEdges,
		ShowLaunchpad:    s.showLaunchpad,
		ClickToPreview:   s.clickToPreview,
		NodeSizeMode:     s.nodeSizeMode,
		ShowLinearThread: s.showLinearThread,
		ShowSlideshow:    s.showSlideshow,
		CanvasPage:       make(map[string]string, len(s.canvasPage)),
		CanvasTitle:      make(map[string]string, len(s.canvasTitle)),
	}
	for id, cfg := range s.configs {
		// Deep copies: the caller marshals the snapshot outside the store
		// lock, so it must not share payload maps with the live entries.
		snap.Config[id] = CanvasConfig{
			NodePreviews: clonePreviews(cfg.NodePreviews),
			LastUsedAt:   cfg.LastUsedAt,
		}
	}
	if len(s.linearThreadMessages) > 0 {
		snap.LinearThreadMessages = cloneThreadMessages(s.linearThreadMessages)
	}
	for k, v := range s.canvasPage {
		snap.CanvasPage[k] = v
	}
	for k, v := range s.canvasTitle {
		snap.CanvasTitle[k] = v
	}
	return snap
}

// Restore merges a previously persisted snapshot over the defaults. State
// outside the persisted subset is left at its default value.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	for id, cfg := range snap.Config {
		s.configs[id] = &CanvasConfig{
			NodePreviews: clonePreviews(cfg.NodePreviews),
			LastUsedAt:   cfg.LastUsedAt,
		}
	}
	s.currentCanvasID = snap.CurrentCanvasID
	s.showEdges = snap.ShowEdges
	s.showLaunchpad = snap.ShowLaunchpad
	s.clickToPreview = snap.ClickToPreview
	if snap.NodeSizeMode != "" {
		s.nodeSizeMode = snap.NodeSizeMode
	}
	s.showLinearThread = snap.ShowLinearThread
	s.showSlideshow = snap.ShowSlideshow
	if len(snap.LinearThreadMessages) > 0 {
		s.linearThreadMessages = cloneThreadMessages(snap.LinearThreadMessages)
	}
	for k, v := range snap.CanvasPage {
		s.canvasPage[k] = v
	}
	for k, v := range snap.CanvasTitle {
		s.canvasTitle[k] = v
	}
}
