package session

import (
	"fmt"
	"strings"

	"enrichment/internal/model"
)

// Session 一次填表会话：两组粘贴块 + Selling Taxonomy 登记
type Session struct {
	state     State
	primary   []string
	secondary []model.SecondaryBlock
	groups    []string
	known     map[string]bool
	skipped   map[string]bool
	skipUsed  bool
}

// New 创建空会话
func New() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// Reset 清空全部数据并回到 Idle
func (s *Session) Reset() {
	s.state = StateIdle
	s.primary = nil
	s.secondary = nil
	s.groups = nil
	s.known = make(map[string]bool)
	s.skipped = make(map[string]bool)
	s.skipUsed = false
}

// State 当前状态
func (s *Session) State() State { return s.state }

// Can 判断操作当前是否可用
func (s *Session) Can(a Action) bool {
	if !transitions[s.state][a] {
		return false
	}
	switch a {
	case ActionGoBack:
		return len(s.primary) > 0 || len(s.secondary) > 0
	case ActionComplete:
		return len(s.secondary) > 0 || s.skipUsed
	}
	return true
}

// Available 所有操作的可用状态
func (s *Session) Available() map[Action]bool {
	out := make(map[Action]bool, len(Actions))
	for _, a := range Actions {
		out[a] = s.Can(a)
	}
	return out
}

func (s *Session) require(a Action) error {
	if !s.Can(a) {
		return fmt.Errorf("%w: %s in state %s", model.ErrActionUnavailable, a, s.state)
	}
	return nil
}

// PasteRecord Step 1：追加 SKU 块
func (s *Session) PasteRecord(text string) error {
	if err := s.require(ActionPastePrimary); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: SKU data is empty", model.ErrEmptyInput)
	}
	s.primary = append(s.primary, text)
	s.state = StateAwaitingSecondary
	return nil
}

// PasteSecondary Step 2：追加 SEQ / NAME 块，关联到最近的 SKU 块
func (s *Session) PasteSecondary(text string) error {
	if err := s.require(ActionPasteSecondary); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: SEQ and NAME data is empty", model.ErrEmptyInput)
	}
	s.secondary = append(s.secondary, model.SecondaryBlock{
		Text:         text,
		PrimaryIndex: len(s.primary) - 1,
	})
	s.state = StateSecondaryCaptured
	return nil
}

// AddAnother 回到 Step 1，保留已有数据
func (s *Session) AddAnother() error {
	if err := s.require(ActionAddAnother); err != nil {
		return err
	}
	s.state = StateIdle
	return nil
}

// Skip 将当前已知的全部 taxonomy 标记为跳过。
// 只记录标记，不删除数据，也不影响输出。
func (s *Session) Skip() error {
	if err := s.require(ActionSkip); err != nil {
		return err
	}
	s.skipped = make(map[string]bool, len(s.groups))
	for _, g := range s.groups {
		s.skipped[g] = true
	}
	s.skipUsed = true
	s.state = StateSkipped
	return nil
}

// GoBack 撤销最近一次粘贴。最近的 SEQ / NAME 块属于最后一个 SKU 块时移除它，
// 否则移除最后一个 SKU 块。两组均为空时不做任何事，返回 false。
func (s *Session) GoBack() bool {
	last := len(s.primary) - 1
	switch {
	case len(s.secondary) > 0 && s.secondary[len(s.secondary)-1].PrimaryIndex >= last:
		s.secondary = s.secondary[:len(s.secondary)-1]
		s.state = StateAwaitingSecondary
		if last < 0 {
			s.state = StateIdle
		}
		return true
	case len(s.primary) > 0:
		s.primary = s.primary[:last]
		s.state = StateIdle
		return true
	}
	return false
}

// CanComplete 是否允许生成 Excel
func (s *Session) CanComplete() error {
	return s.require(ActionComplete)
}

// MarkComplete 生成成功后登记 taxonomy 并进入 Complete
func (s *Session) MarkComplete(groups []string) {
	s.RegisterGroups(groups)
	s.state = StateComplete
}

// RegisterGroups 按出现顺序登记 taxonomy
func (s *Session) RegisterGroups(groups []string) {
	for _, g := range groups {
		if s.known[g] {
			continue
		}
		s.known[g] = true
		s.groups = append(s.groups, g)
	}
}

// Load 用历史记录替换当前数据，状态按块数量推导
func (s *Session) Load(run model.Run) {
	s.Reset()
	s.primary = append([]string{}, run.SKUData...)
	for i, text := range run.SeqNameData {
		idx := i
		if idx >= len(s.primary) {
			idx = len(s.primary) - 1
		}
		s.secondary = append(s.secondary, model.SecondaryBlock{Text: text, PrimaryIndex: idx})
	}
	switch {
	case len(s.primary) == 0:
		s.state = StateIdle
	case len(s.secondary) >= len(s.primary):
		s.state = StateSecondaryCaptured
	default:
		s.state = StateAwaitingSecondary
	}
}

// PrimaryBlocks SKU 块副本
func (s *Session) PrimaryBlocks() []string {
	return append([]string{}, s.primary...)
}

// SecondaryBlocks SEQ / NAME 块副本
func (s *Session) SecondaryBlocks() []model.SecondaryBlock {
	return append([]model.SecondaryBlock{}, s.secondary...)
}

// SecondaryTexts SEQ / NAME 块文本副本
func (s *Session) SecondaryTexts() []string {
	out := make([]string, len(s.secondary))
	for i, b := range s.secondary {
		out[i] = b.Text
	}
	return out
}

// Run 当前数据快照（写入历史用）
func (s *Session) Run() model.Run {
	return model.Run{
		SKUData:     s.PrimaryBlocks(),
		SeqNameData: s.SecondaryTexts(),
	}
}

// Groups 已登记的 taxonomy
func (s *Session) Groups() []string {
	return append([]string{}, s.groups...)
}

// SkippedGroups 被跳过的 taxonomy（按登记顺序）
func (s *Session) SkippedGroups() []string {
	var out []string
	for _, g := range s.groups {
		if s.skipped[g] {
			out = append(out, g)
		}
	}
	return out
}

// SkipUsed 是否执行过 skip
func (s *Session) SkipUsed() bool { return s.skipUsed }
