package session

// State 会话步骤
type State int

const (
	StateIdle              State = iota // 等待 Step 1
	StateAwaitingSecondary              // 已粘贴 SKU，等待 Step 2
	StateSecondaryCaptured              // 已粘贴 SEQ / NAME
	StateSkipped                        // 已跳过 Step 2
	StateComplete                       // 已生成 Excel
)

var stateNames = map[State]string{
	StateIdle:              "idle",
	StateAwaitingSecondary: "awaiting_secondary",
	StateSecondaryCaptured: "secondary_captured",
	StateSkipped:           "skipped",
	StateComplete:          "complete",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Action 用户操作（对应界面按钮）
type Action string

const (
	ActionPastePrimary   Action = "paste_primary"
	ActionPasteSecondary Action = "paste_secondary"
	ActionAddAnother     Action = "add_another"
	ActionSkip           Action = "skip"
	ActionComplete       Action = "complete"
	ActionGoBack         Action = "go_back"
	ActionClear          Action = "clear"
	ActionRecall         Action = "recall"
)

// Actions 按钮顺序
var Actions = []Action{
	ActionPastePrimary,
	ActionPasteSecondary,
	ActionAddAnother,
	ActionSkip,
	ActionComplete,
	ActionGoBack,
	ActionClear,
	ActionRecall,
}

// Label 按钮文字
func (a Action) Label() string {
	switch a {
	case ActionPastePrimary:
		return "Step 1: Paste SKU Data"
	case ActionPasteSecondary:
		return "Step 2: Paste SEQ and NAME Data"
	case ActionAddAnother:
		return "Add Another SKU"
	case ActionSkip:
		return "Skip Step 2 for Current SKU"
	case ActionComplete:
		return "Complete and Generate Excel"
	case ActionGoBack:
		return "Go Back to Previous SKU"
	case ActionClear:
		return "Clear All Data"
	case ActionRecall:
		return "Recall Last Run"
	}
	return string(a)
}

// transitions 各状态允许的操作；go back / complete 另有数据条件
var transitions = map[State]map[Action]bool{
	StateIdle: {
		ActionPastePrimary: true,
		ActionComplete:     true,
		ActionGoBack:       true,
		ActionClear:        true,
		ActionRecall:       true,
	},
	StateAwaitingSecondary: {
		ActionPasteSecondary: true,
		ActionComplete:       true,
		ActionGoBack:         true,
		ActionClear:          true,
		ActionRecall:         true,
	},
	StateSecondaryCaptured: {
		ActionAddAnother: true,
		ActionSkip:       true,
		ActionComplete:   true,
		ActionGoBack:     true,
		ActionClear:      true,
		ActionRecall:     true,
	},
	StateSkipped: {
		ActionAddAnother: true,
		ActionSkip:       true,
		ActionComplete:   true,
		ActionGoBack:     true,
		ActionClear:      true,
		ActionRecall:     true,
	},
	StateComplete: {
		ActionAddAnother: true,
		ActionComplete:   true,
		ActionGoBack:     true,
		ActionClear:      true,
		ActionRecall:     true,
	},
}
