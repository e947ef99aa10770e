package canvas

import "time"

// Flags is a read-only view of the global UI flags.
type Flags struct {
	CurrentCanvasID   string            `json:"currentCanvasId"`
	OperatingNodeID   string            `json:"operatingNodeId"`
	TplConfig         *TplConfig        `json:"tplConfig,omitempty"`
	ShowPreview       bool              `json:"showPreview"`
	ShowLaunchpad     bool              `json:"showLaunchpad"`
	ShowEdges         bool              `json:"showEdges"`
	ShowSlideshow     bool              `json:"showSlideshow"`
	ShowLinearThread  bool              `json:"showLinearThread"`
	ClickToPreview    bool              `json:"clickToPreview"`
	AutoLayout        bool              `json:"autoLayout"`
	NodeSizeMode      NodeSizeMode      `json:"nodeSizeMode"`
	CanvasPage        map[string]string `json:"canvasPage"`
	CanvasTitle       map[string]string `json:"canvasTitle"`
	CanvasInitialized map[string]bool   `json:"canvasInitialized"`
}

// Flags returns a copy of the current global flag state.
func (s *Store) Flags() Flags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := Flags{
		CurrentCanvasID:   s.currentCanvasID,
		OperatingNodeID:   s.operatingNodeID,
		TplConfig:         s.tplConfig.clone(),
		ShowPreview:       s.showPreview,
		ShowLaunchpad:     s.showLaunchpad,
		ShowEdges:         s.showEdges,
		ShowSlideshow:     s.showSlideshow,
		ShowLinearThread:  s.showLinearThread,
		ClickToPreview:    s.clickToPreview,
		AutoLayout:        s.autoLayout,
		NodeSizeMode:      s.nodeSizeMode,
		CanvasPage:        make(map[string]string, len(s.canvasPage)),
		CanvasTitle:       make(map[string]string, len(s.canvasTitle)),
		CanvasInitialized: make(map[string]bool, len(s.canvasInitialized)),
	}
	for k, v := range s.canvasPage {
		f.CanvasPage[k] = v
	}
	for k, v := range s.canvasTitle {
		f.CanvasTitle[k] = v
	}
	for k, v := range s.canvasInitialized {
		f.CanvasInitialized[k] = v
	}
	return f
}

func (s *Store) setFlag(apply func()) {
	s.mu.Lock()
	apply()
	s.mu.Unlock()
	s.notify(ChangeEvent{Op: OpSetFlag, At: time.Now()})
}

func (s *Store) SetCurrentCanvasID(id string) { s.setFlag(func() { s.currentCanvasID = id }) }
func (s *Store) SetOperatingNodeID(id string) { s.setFlag(func() { s.operatingNodeID = id }) }
func (s *Store) SetTplConfig(cfg *TplConfig)  { s.setFlag(func() { s.tplConfig = cfg.clone() }) }

func (s *Store) SetShowPreview(v bool)      { s.setFlag(func() { s.showPreview = v }) }
func (s *Store) SetShowLaunchpad(v bool)    { s.setFlag(func() { s.showLaunchpad = v }) }
func (s *Store) SetShowEdges(v bool)        { s.setFlag(func() { s.showEdges = v }) }
func (s *Store) SetShowSlideshow(v bool)    { s.setFlag(func() { s.showSlideshow = v }) }
func (s *Store) SetShowLinearThread(v bool) { s.setFlag(func() { s.showLinearThread = v }) }
func (s *Store) SetClickToPreview(v bool)   { s.setFlag(func() { s.clickToPreview = v }) }
func (s *Store) SetAutoLayout(v bool)       { s.setFlag(func() { s.autoLayout = v }) }

func (s *Store) SetNodeSizeMode(mode NodeSizeMode) { s.setFlag(func() { s.nodeSizeMode = mode }) }

func (s *Store) SetCanvasPage(canvasID, pageID string) {
	s.setFlag(func() { s.canvasPage[canvasID] = pageID })
}

func (s *Store) SetCanvasTitle(canvasID, title string) {
	s.setFlag(func() { s.canvasTitle[canvasID] = title })
}

func (s *Store) SetCanvasInitialized(canvasID string, v bool) {
	s.setFlag(func() { s.canvasInitialized[canvasID] = v })
}
