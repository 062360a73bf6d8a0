package workflow

import "enrichment/internal/session"

// ActionView 按钮状态
type ActionView struct {
	Action  session.Action `json:"action"`
	Label   string         `json:"label"`
	Enabled bool           `json:"enabled"`
}

// View 会话快照（界面渲染用）
type View struct {
	State           string       `json:"state"`
	Actions         []ActionView `json:"actions"`
	PrimaryBlocks   int          `json:"primaryBlocks"`
	SecondaryBlocks int          `json:"secondaryBlocks"`
	Groups          []string     `json:"groups"`
	SkippedGroups   []string     `json:"skippedGroups"`
	Message         string       `json:"message,omitempty"`
}

// Enabled 查询某个操作是否可用
func (v View) Enabled(a session.Action) bool {
	for _, av := range v.Actions {
		if av.Action == a {
			return av.Enabled
		}
	}
	return false
}

func buildView(s *session.Session, message string) View {
	available := s.Available()
	actions := make([]ActionView, 0, len(session.Actions))
	for _, a := range session.Actions {
		actions = append(actions, ActionView{Action: a, Label: a.Label(), Enabled: available[a]})
	}
	groups := s.Groups()
	if groups == nil {
		groups = []string{}
	}
	skipped := s.SkippedGroups()
	if skipped == nil {
		skipped = []string{}
	}
	return View{
		State:           s.State().String(),
		Actions:         actions,
		PrimaryBlocks:   len(s.PrimaryBlocks()),
		SecondaryBlocks: len(s.SecondaryBlocks()),
		Groups:          groups,
		SkippedGroups:   skipped,
		Message:         message,
	}
}
