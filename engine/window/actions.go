package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-life/common"
)

// Action is a simulation control triggered from the keyboard.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionStep
	ActionReseed
	ActionClear
	ActionFaster
	ActionSlower
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionTogglePause:
		return "toggle-pause"
	case ActionStep:
		return "step"
	case ActionReseed:
		return "reseed"
	case ActionClear:
		return "clear"
	case ActionFaster:
		return "faster"
	case ActionSlower:
		return "slower"
	case ActionQuit:
		return "quit"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// KeyBindings maps GLFW key codes to actions.
type KeyBindings map[uint32]Action

// DefaultKeyBindings returns Space to pause, N to single-step, R to reseed, C to clear,
// = or Up to speed up, - or Down to slow down and Escape to quit.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		common.KeySpace: ActionTogglePause,
		common.KeyN:     ActionStep,
		common.KeyR:     ActionReseed,
		common.KeyC:     ActionClear,
		common.KeyEqual: ActionFaster,
		common.KeyUp:    ActionFaster,
		common.KeyMinus: ActionSlower,
		common.KeyDown:  ActionSlower,
		common.KeyEsc:   ActionQuit,
	}
}

// Resolve returns the action bound to keyCode, or ActionNone.
func (k KeyBindings) Resolve(keyCode uint32) Action {
	return k[keyCode]
}
