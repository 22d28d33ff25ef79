package client

// State is the lifecycle state of a Client.
type State int32

const (
	// StateIdle is a client that has not been started.
	StateIdle State = iota
	// StateStarting is a client performing setup and the initialize handshake.
	StateStarting
	// StateRunning is a client handling host traffic.
	StateRunning
	// StateCleaningUp is a client running its teardown sequence.
	StateCleaningUp
	// StateTerminated is a client the host has torn down.
	StateTerminated
	// StateClosed is a client disposed locally with Close.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateCleaningUp:
		return "cleaning-up"
	case StateTerminated:
		return "terminated"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
