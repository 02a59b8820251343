package broker

// State is the broker connection state.
type State int32

const (
	// StateDisconnected means that there is no connection and none is
	// being established.
	StateDisconnected State = iota

	// StateConnecting means that the initial connection is being
	// established.
	StateConnecting

	// StateConnected means that the connection and channel are open and
	// every setup hook has completed.
	StateConnected

	// StateDegraded means that an established connection was lost and a
	// reconnection is in progress.
	StateDegraded
)

// States lists every state in their numeric order.
var States = []State{
	StateDisconnected,
	StateConnecting,
	StateConnected,
	StateDegraded,
}

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}
