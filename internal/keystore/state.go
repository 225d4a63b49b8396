package keystore

// State is the lifecycle state of a Session.
type State int32

const (
	// StateDisconnected is the initial state, and the state after Disconnect.
	StateDisconnected State = iota
	// StateConnecting is held while a dial is in flight.
	StateConnecting
	// StateConnected allows primitives.
	StateConnected
	// StateFailed follows a failed dial or a lost channel.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}
