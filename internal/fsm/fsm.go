package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateCapturing  State = "capturing"
	StateSpawning   State = "spawning"
	StateRunning    State = "running"
	StateCompleting State = "completing"
)

const (
	EventTrigger   Event = "trigger"
	EventValidated Event = "validated"
	EventCaptured  Event = "captured"
	EventSpawned   Event = "spawned"
	EventExited    Event = "exited"
	EventRestored  Event = "restored"
	EventFail      Event = "fail"
)

// Transition applies one lifecycle event. Failures are contained to a single
// launch cycle, so EventFail returns to idle from any state.
func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		return StateIdle, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventTrigger:
			return StateValidating, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateValidating:
		switch event {
		case EventValidated:
			return StateCapturing, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCapturing:
		switch event {
		case EventCaptured:
			return StateSpawning, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSpawning:
		switch event {
		case EventSpawned:
			return StateRunning, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateRunning:
		switch event {
		case EventExited:
			return StateCompleting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCompleting:
		switch event {
		case EventRestored:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
