package canvas

import "time"

// PayloadKind tags the payload carried by a node preview. Unknown kinds are
// accepted and carried opaquely so newer frontends keep working against an
// older service.
type PayloadKind string

const (
	KindDocument      PayloadKind = "document"
	KindCodeArtifact  PayloadKind = "codeArtifact"
	KindWebsite       PayloadKind = "website"
	KindSkillResponse PayloadKind = "skillResponse"
	KindUnknown       PayloadKind = "unknown"
)

// NodePreview identifies a canvas node shown in the preview rail.
type NodePreview struct {
	ID       string         `json:"id"`
	Kind     PayloadKind    `json:"kind"`
	Data     map[string]any `json:"data,omitempty"`
	IsPinned bool           `json:"isPinned"`
}

// NodePreviewPatch is a partial update for an existing preview. Nil fields are
// left untouched. When Data is non-nil it is shallow-merged into the existing
// entry's Data and the other fields are ignored.
type NodePreviewPatch struct {
	ID       string         `json:"id"`
	Kind     *PayloadKind   `json:"kind,omitempty"`
	IsPinned *bool          `json:"isPinned,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// CanvasConfig holds the per-canvas preview rail plus cache metadata.
//
// Invariants maintained by Store:
//   - preview IDs are unique within the list
//   - at most one entry has IsPinned == false
//   - pinned entries keep their insertion-relative order
type CanvasConfig struct {
	NodePreviews []NodePreview `json:"nodePreviews"`
	LastUsedAt   time.Time     `json:"lastUsedAt"`
}

// LinearThreadMessage is one entry of the process-wide linear thread log.
type LinearThreadMessage struct {
	ID        string         `json:"id"`
	NodeID    string         `json:"nodeId"`
	ResultID  string         `json:"resultId"`
	CreatedAt time.Time      `json:"createdAt"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NodeSizeMode controls how nodes render on the canvas.
type NodeSizeMode string

const (
	NodeSizeMedium  NodeSizeMode = "medium"
	NodeSizeCompact NodeSizeMode = "compact"
)

// TplConfig carries the template-selection modal state. Never persisted.
type TplConfig struct {
	TemplateID string         `json:"templateId"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// cloneAnyMap copies the top level of an opaque payload map. The store only
// writes top-level keys in place; nested values are replaced wholesale, so a
// top-level copy is enough to keep copies independent of the live state.
func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clonePreviews(previews []NodePreview) []NodePreview {
	out := make([]NodePreview, len(previews))
	for i, p := range previews {
		p.Data = cloneAnyMap(p.Data)
		out[i] = p
	}
	return out
}

func cloneThreadMessages(msgs []LinearThreadMessage) []LinearThreadMessage {
	out := make([]LinearThreadMessage, len(msgs))
	for i, m := range msgs {
		m.Payload = cloneAnyMap(m.Payload)
		out[i] = m
	}
	return out
}

func (c *TplConfig) clone() *TplConfig {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Fields = cloneAnyMap(cp.Fields)
	return &cp
}
