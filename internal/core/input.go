package core

// Action is a semantic input intent, abstracted from physical keys or touch
// gestures.
type Action int

const (
	ActionNone      Action = iota
	ActionLaneLeft         // swipe left / left arrow
	ActionLaneRight        // swipe right / right arrow
	ActionLane0            // tap left zone / 1
	ActionLane1            // tap middle zone / 2
	ActionLane2            // tap right zone / 3
	ActionPause            // P, space - pause/resume
	ActionRestart          // R - new session after game over
	ActionBack             // B - back to the mode picker
	ActionQuit             // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLaneLeft:
		return "LaneLeft"
	case ActionLaneRight:
		return "LaneRight"
	case ActionLane0:
		return "Lane0"
	case ActionLane1:
		return "Lane1"
	case ActionLane2:
		return "Lane2"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// DirectLane returns the lane a direct-selection action targets.
func (a Action) DirectLane() (int, bool) {
	switch a {
	case ActionLane0:
		return 0, true
	case ActionLane1:
		return 1, true
	case ActionLane2:
		return 2, true
	}
	return 0, false
}
