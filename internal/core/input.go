package core

// Action is a semantic viewer command, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionPause          // P, Space - pause/resume training
	ActionStep           // S - one trainer step while paused
	ActionFaster         // +, = - halve the delay between steps
	ActionSlower         // - - double the delay between steps
	ActionPrintQ         // T - print the full Q-table above the view
	ActionEmoji          // E - toggle emoji board
	ActionHelp           // ? - toggle full help
	ActionBack           // B, Escape - back to the level picker
	ActionQuit           // Q, Ctrl+C - stop training
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPause:
		return "Pause"
	case ActionStep:
		return "Step"
	case ActionFaster:
		return "Faster"
	case ActionSlower:
		return "Slower"
	case ActionPrintQ:
		return "PrintQ"
	case ActionEmoji:
		return "Emoji"
	case ActionHelp:
		return "Help"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered between two ticks.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
