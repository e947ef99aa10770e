package canvas

import (
	"errors"
	"testing"
	"time"
)

func previewIDs(cfg CanvasConfig) []string {
	ids := make([]string, len(cfg.NodePreviews))
	for i, p := range cfg.NodePreviews {
		ids[i] = p.ID
	}
	return ids
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestAddNodePreviewOrdering(t *testing.T) {
	tests := []struct {
		name string
		adds []NodePreview
		want []string
	}{
		{
			name: "unpinned replaces unpinned",
			adds: []NodePreview{
				{ID: "u1", Kind: KindDocument},
				{ID: "u2", Kind: KindDocument},
			},
			want: []string{"u2"},
		},
		{
			name: "pinned goes after existing unpinned",
			adds: []NodePreview{
				{ID: "u1", Kind: KindDocument},
				{ID: "p1", Kind: KindWebsite, IsPinned: true},
			},
			want: []string{"u1", "p1"},
		},
		{
			name: "pinned entries keep insertion order",
			adds: []NodePreview{
				{ID: "u1", Kind: KindDocument},
				{ID: "p1", Kind: KindWebsite, IsPinned: true},
				{ID: "p2", Kind: KindCodeArtifact, IsPinned: true},
				{ID: "p3", Kind: KindSkillResponse, IsPinned: true},
			},
			want: []string{"u1", "p1", "p2", "p3"},
		},
		{
			name: "unpinned takes primary slot over pinned",
			adds: []NodePreview{
				{ID: "p1", Kind: KindWebsite, IsPinned: true},
				{ID: "u1", Kind: KindDocument},
			},
			want: []string{"u1", "p1"},
		},
		{
			name: "pinned only",
			adds: []NodePreview{
				{ID: "p1", Kind: KindWebsite, IsPinned: true},
				{ID: "p2", Kind: KindCodeArtifact, IsPinned: true},
			},
			want: []string{"p1", "p2"},
		},
		{
			name: "unpinned replacement keeps pinned entries",
			adds: []NodePreview{
				{ID: "u1", Kind: KindDocument},
				{ID: "p1", Kind: KindWebsite, IsPinned: true},
				{ID: "u2", Kind: KindDocument},
			},
			want: []string{"u2", "p1"},
		},
		{
			name: "duplicate id is a no-op",
			adds: []NodePreview{
				{ID: "u1", Kind: KindDocument},
				{ID: "u1", Kind: KindWebsite, IsPinned: true},
			},
			want: []string{"u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			for _, n := range tt.adds {
				s.AddNodePreview("c1", n)
			}
			cfg, ok := s.Config("c1")
			if !ok {
				t.Fatal("Config(c1) not found after adds")
			}
			if got := previewIDs(cfg); !equalIDs(got, tt.want) {
				t.Errorf("preview order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddNodePreviewAtMostOneUnpinned(t *testing.T) {
	s := NewStore()
	adds := []NodePreview{
		{ID: "a"},
		{ID: "b", IsPinned: true},
		{ID: "c"},
		{ID: "d", IsPinned: true},
		{ID: "e"},
	}
	for _, n := range adds {
		s.AddNodePreview("c1", n)

		cfg, _ := s.Config("c1")
		unpinned := 0
		for _, p := range cfg.NodePreviews {
			if !p.IsPinned {
				unpinned++
			}
		}
		if unpinned > 1 {
			t.Fatalf("after adding %q: %d unpinned entries, want at most 1", n.ID, unpinned)
		}
	}

	cfg, _ := s.Config("c1")
	if got := previewIDs(cfg); !equalIDs(got, []string{"e", "b", "d"}) {
		t.Errorf("final order = %v, want [e b d]", got)
	}
}

func TestAddNodePreviewDefaultsUnknownKind(t *testing.T) {
	s := NewStore()
	s.AddNodePreview("c1", NodePreview{ID: "n1"})

	cfg, _ := s.Config("c1")
	if cfg.NodePreviews[0].Kind != KindUnknown {
		t.Errorf("Kind = %q, want %q", cfg.NodePreviews[0].Kind, KindUnknown)
	}
}

func TestAddNodePreviewDuplicateDoesNotBumpLastUsedAt(t *testing.T) {
	s := NewStore()
	t1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	s.now = func() time.Time { return t1 }
	s.AddNodePreview("c1", NodePreview{ID: "n1"})

	s.now = func() time.Time { return t2 }
	s.AddNodePreview("c1", NodePreview{ID: "n1"})

	cfg, _ := s.Config("c1")
	if !cfg.LastUsedAt.Equal(t1) {
		t.Errorf("LastUsedAt = %v, want %v (duplicate add must not bump)", cfg.LastUsedAt, t1)
	}
}

func TestSetNodePreview(t *testing.T) {
	tests := []struct {
		name     string
		adds     []NodePreview
		set      NodePreview
		canvasID string
		want     []string
	}{
		{
			name: "replaces pinned entry in place",
			adds: []NodePreview{
				{ID: "u1"},
				{ID: "p1", IsPinned: true},
				{ID: "p2", IsPinned: true},
			},
			set:      NodePreview{ID: "p1", Kind: KindWebsite, IsPinned: true},
			canvasID: "c1",
			want:     []string{"u1", "p1", "p2"},
		},
		{
			name:     "replaces unpinned entry in primary slot",
			adds:     []NodePreview{{ID: "u1"}},
			set:      NodePreview{ID: "u1", Kind: KindDocument},
			canvasID: "c1",
			want:     []string{"u1"},
		},
		{
			name: "unpinned replacement outside primary slot removes entry",
			adds: []NodePreview{
				{ID: "u1"},
				{ID: "p1", IsPinned: true},
			},
			set:      NodePreview{ID: "p1", Kind: KindWebsite},
			canvasID: "c1",
			want:     []string{"u1"},
		},
		{
			name:     "absent id is a no-op",
			adds:     []NodePreview{{ID: "u1"}},
			set:      NodePreview{ID: "ghost"},
			canvasID: "c1",
			want:     []string{"u1"},
		},
		{
			name:     "absent canvas is a no-op",
			adds:     []NodePreview{{ID: "u1"}},
			set:      NodePreview{ID: "u1", IsPinned: true},
			canvasID: "other",
			want:     []string{"u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			for _, n := range tt.adds {
				s.AddNodePreview("c1", n)
			}
			s.SetNodePreview(tt.canvasID, tt.set)

			cfg, _ := s.Config("c1")
			if got := previewIDs(cfg); !equalIDs(got, tt.want) {
				t.Errorf("preview order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetNodePreviewOverwritesFields(t *testing.T) {
	s := NewStore()
	s.AddNodePreview("c1", NodePreview{ID: "p1", Kind: KindDocument, IsPinned: true, Data: map[string]any{"old": true}})
	s.SetNodePreview("c1", NodePreview{ID: "p1", Kind: KindWebsite, IsPinned: true})

	cfg, _ := s.Config("c1")
	got := cfg.NodePreviews[0]
	if got.Kind != KindWebsite {
		t.Errorf("Kind = %q, want %q", got.Kind, KindWebsite)
	}
	if got.Data != nil {
		t.Errorf("Data = %v, want nil (set replaces, it does not merge)", got.Data)
	}
}

func TestUpdateNodePreview(t *testing.T) {
	kind := KindCodeArtifact
	pinned := true

	tests := []struct {
		name     string
		patch    NodePreviewPatch
		wantData map[string]any
		wantKind PayloadKind
		wantPin  bool
	}{
		{
			name:     "merges data shallowly",
			patch:    NodePreviewPatch{ID: "n1", Data: map[string]any{"bar": 2}},
			wantData: map[string]any{"foo": 1, "bar": 2},
			wantKind: KindDocument,
		},
		{
			name:     "data overwrite wins per key",
			patch:    NodePreviewPatch{ID: "n1", Data: map[string]any{"foo": 9}},
			wantData: map[string]any{"foo": 9},
			wantKind: KindDocument,
		},
		{
			name:     "scalar fields applied when data absent",
			patch:    NodePreviewPatch{ID: "n1", Kind: &kind, IsPinned: &pinned},
			wantData: map[string]any{"foo": 1},
			wantKind: KindCodeArtifact,
			wantPin:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.AddNodePreview("c1", NodePreview{ID: "n1", Kind: KindDocument, Data: map[string]any{"foo": 1}})
			s.UpdateNodePreview("c1", tt.patch)

			cfg, _ := s.Config("c1")
			got := cfg.NodePreviews[0]
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if got.IsPinned != tt.wantPin {
				t.Errorf("IsPinned = %v, want %v", got.IsPinned, tt.wantPin)
			}
			if len(got.Data) != len(tt.wantData) {
				t.Fatalf("Data = %v, want %v", got.Data, tt.wantData)
			}
			for k, v := range tt.wantData {
				if got.Data[k] != v {
					t.Errorf("Data[%q] = %v, want %v", k, got.Data[k], v)
				}
			}
		})
	}
}

func TestUpdateNodePreviewAbsentIDIsNoop(t *testing.T) {
	s := NewStore()
	s.AddNodePreview("c1", NodePreview{ID: "n1"})
	s.UpdateNodePreview("c1", NodePreviewPatch{ID: "ghost", Data: map[string]any{"x": 1}})
	s.UpdateNodePreview("nope", NodePreviewPatch{ID: "n1", Data: map[string]any{"x": 1}})

	cfg, _ := s.Config("c1")
	if cfg.NodePreviews[0].Data != nil {
		t.Errorf("Data = %v, want nil", cfg.NodePreviews[0].Data)
	}
}

func TestRemoveNodePreview(t *testing.T) {
	s := NewStore()
	s.AddNodePreview("c1", NodePreview{ID: "u1"})
	s.AddNodePreview("c1", NodePreview{ID: "p1", IsPinned: true})

	s.RemoveNodePreview("c1", "p1")
	cfg, _ := s.Config("c1")
	if got := previewIDs(cfg); !equalIDs(got, []string{"u1"}) {
		t.Errorf("after remove = %v, want [u1]", got)
	}

	// Absent id and absent canvas must both be silent no-ops.
	s.RemoveNodePreview("c1", "ghost")
	s.RemoveNodePreview("nope", "u1")
	cfg, _ = s.Config("c1")
	if got := previewIDs(cfg); !equalIDs(got, []string{"u1"}) {
		t.Errorf("after no-op removes = %v, want [u1]", got)
	}
}

func TestReorderNodePreviews(t *testing.T) {
	tests := []struct {
		name   string
		source int
		target int
		want   []string
	}{
		{name: "move first forward", source: 0, target: 2, want: []string{"b", "c", "a", "d"}},
		{name: "move last to front", source: 3, target: 0, want: []string{"d", "a", "b", "c"}},
		{name: "same index", source: 1, target: 1, want: []string{"a", "b", "c", "d"}},
		{name: "adjacent swap", source: 2, target: 1, want: []string{"a", "c", "b", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			for _, id := range []string{"a", "b", "c", "d"} {
				s.AddNodePreview("c1", NodePreview{ID: id, IsPinned: true})
			}
			if err := s.ReorderNodePreviews("c1", tt.source, tt.target); err != nil {
				t.Fatalf("ReorderNodePreviews(%d, %d) = %v", tt.source, tt.target, err)
			}
			cfg, _ := s.Config("c1")
			if got := previewIDs(cfg); !equalIDs(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReorderNodePreviewsOutOfRange(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"a", "b"} {
		s.AddNodePreview("c1", NodePreview{ID: id, IsPinned: true})
	}

	tests := []struct {
		name     string
		canvasID string
		source   int
		target   int
	}{
		{name: "negative source", canvasID: "c1", source: -1, target: 0},
		{name: "source past end", canvasID: "c1", source: 2, target: 0},
		{name: "negative target", canvasID: "c1", source: 0, target: -1},
		{name: "target past end", canvasID: "c1", source: 0, target: 2},
		{name: "unknown canvas", canvasID: "nope", source: 0, target: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ReorderNodePreviews(tt.canvasID, tt.source, tt.target)
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("err = %v, want ErrIndexOutOfRange", err)
			}
		})
	}

	// Failed reorders leave the list untouched.
	cfg, _ := s.Config("c1")
	if got := previewIDs(cfg); !equalIDs(got, []string{"a", "b"}) {
		t.Errorf("order after failed reorders = %v, want [a b]", got)
	}
}

func TestDeleteCanvasData(t *testing.T) {
	s := NewStore()
	s.AddNodePreview("c1", NodePreview{ID: "n1"})
	s.AddNodePreview("c2", NodePreview{ID: "n2"})
	s.SetCanvasPage("c1", "page-1")
	s.SetCanvasTitle("c1", "First")
	s.SetCanvasInitialized("c1", true)

	s.DeleteCanvasData("c1")

	if _, ok := s.Config("c1"); ok {
		t.Error("Config(c1) still present after delete")
	}
	if _, ok := s.Config("c2"); !ok {
		t.Error("Config(c2) gone, delete must be scoped to one canvas")
	}
	f := s.Flags()
	if _, ok := f.CanvasPage["c1"]; ok {
		t.Error("CanvasPage entry survived delete")
	}
	if _, ok := f.CanvasTitle["c1"]; ok {
		t.Error("CanvasTitle entry survived delete")
	}
	if _, ok := f.CanvasInitialized["c1"]; ok {
		t.Error("CanvasInitialized entry survived delete")
	}
}

func TestLinearThreadMessages(t *testing.T) {
	s := NewStore()
	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	m1 := s.AddLinearThreadMessage(LinearThreadMessage{NodeID: "n1", ResultID: "r1"})
	m2 := s.AddLinearThreadMessage(LinearThreadMessage{ID: "explicit", NodeID: "n2"})
	m3 := s.AddLinearThreadMessage(LinearThreadMessage{NodeID: "n1"})

	if m1.ID == "" {
		t.Error("missing ID was not filled in")
	}
	if m2.ID != "explicit" {
		t.Errorf("explicit ID = %q, want %q", m2.ID, "explicit")
	}
	if !m1.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", m1.CreatedAt, fixed)
	}

	msgs := s.LinearThreadMessages()
	if len(msgs) != 3 || msgs[0].ID != m1.ID || msgs[1].ID != m2.ID || msgs[2].ID != m3.ID {
		t.Fatalf("log does not preserve append order: %+v", msgs)
	}

	s.RemoveLinearThreadMessage("explicit")
	if got := len(s.LinearThreadMessages()); got != 2 {
		t.Errorf("after remove by id: %d messages, want 2", got)
	}

	s.RemoveLinearThreadMessageByNodeID("n1")
	if got := len(s.LinearThreadMessages()); got != 0 {
		t.Errorf("after remove by node: %d messages, want 0", got)
	}

	s.AddLinearThreadMessage(LinearThreadMessage{NodeID: "n3"})
	s.ClearLinearThreadMessages()
	if got := len(s.LinearThreadMessages()); got != 0 {
		t.Errorf("after clear: %d messages, want 0", got)
	}
}

func TestClearStateRestoresDefaults(t *testing.T) {
	s := NewStore()
	s.AddNodePreview("c1", NodePreview{ID: "n1"})
	s.AddLinearThreadMessage(LinearThreadMessage{NodeID: "n1"})
	s.SetCurrentCanvasID("c1")
	s.SetOperatingNodeID("n1")
	s.SetTplConfig(&TplConfig{TemplateID: "tpl-1"})
	s.SetShowPreview(false)
	s.SetShowLaunchpad(true)
	s.SetShowEdges(false)
	s.SetShowSlideshow(true)
	s.SetShowLinearThread(true)
	s.SetClickToPreview(false)
	s.SetAutoLayout(true)
	s.SetNodeSizeMode(NodeSizeCompact)
	s.SetCanvasPage("c1", "p1")
	s.SetCanvasTitle("c1", "Title")
	s.SetCanvasInitialized("c1", true)

	s.ClearState()

	if _, ok := s.Config("c1"); ok {
		t.Error("canvas config survived ClearState")
	}
	if got := len(s.LinearThreadMessages()); got != 0 {
		t.Errorf("thread log has %d messages after ClearState", got)
	}

	f := s.Flags()
	if f.CurrentCanvasID != "" || f.OperatingNodeID != "" || f.TplConfig != nil {
		t.Errorf("selection state not reset: %+v", f)
	}
	if !f.ShowPreview || f.ShowLaunchpad || !f.ShowEdges || f.ShowSlideshow || f.ShowLinearThread {
		t.Errorf("visibility flags not at defaults: %+v", f)
	}
	if !f.ClickToPreview || f.AutoLayout {
		t.Errorf("interaction flags not at defaults: %+v", f)
	}
	if f.NodeSizeMode != NodeSizeMedium {
		t.Errorf("NodeSizeMode = %q, want %q", f.NodeSizeMode, NodeSizeMedium)
	}
	if len(f.CanvasPage) != 0 || len(f.CanvasTitle) != 0 || len(f.CanvasInitialized) != 0 {
		t.Errorf("per-canvas maps not emptied: %+v", f)
	}
}

func TestMutationsBumpLastUsedAt(t *testing.T) {
	s := NewStore()
	t1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t1 }
	s.AddNodePreview("c1", NodePreview{ID: "a", IsPinned: true})
	s.AddNodePreview("c1", NodePreview{ID: "b", IsPinned: true})

	t2 := t1.Add(time.Minute)
	s.now = func() time.Time { return t2 }

	// A read must not bump the timestamp.
	if cfg, _ := s.Config("c1"); !cfg.LastUsedAt.Equal(t1) {
		t.Errorf("LastUsedAt after read = %v, want %v", cfg.LastUsedAt, t1)
	}

	if err := s.ReorderNodePreviews("c1", 0, 1); err != nil {
		t.Fatalf("ReorderNodePreviews: %v", err)
	}
	if cfg, _ := s.Config("c1"); !cfg.LastUsedAt.Equal(t2) {
		t.Errorf("LastUsedAt after reorder = %v, want %v", cfg.LastUsedAt, t2)
	}

	t3 := t2.Add(time.Minute)
	s.now = func() time.Time { return t3 }
	s.UpdateNodePreview("c1", NodePreviewPatch{ID: "a", Data: map[string]any{"x": 1}})
	if cfg, _ := s.Config("c1"); !cfg.LastUsedAt.Equal(t3) {
		t.Errorf("LastUsedAt after update = %v, want %v", cfg.LastUsedAt, t3)
	}
}

func TestSubscribeDeliversChangeEvents(t *testing.T) {
	s := NewStore()
	events, cancel := s.Subscribe()

	s.AddNodePreview("c1", NodePreview{ID: "n1"})
	s.SetShowEdges(false)

	ev := <-events
	if ev.Op != OpAddNodePreview || ev.CanvasID != "c1" || ev.NodeID != "n1" {
		t.Errorf("first event = %+v, want add for c1/n1", ev)
	}
	ev = <-events
	if ev.Op != OpSetFlag {
		t.Errorf("second event op = %q, want %q", ev.Op, OpSetFlag)
	}

	cancel()
	if _, open := <-events; open {
		t.Error("channel still open after cancel")
	}

	// Mutations after cancel must not panic or block.
	s.AddNodePreview("c1", NodePreview{ID: "n2", IsPinned: true})
}
