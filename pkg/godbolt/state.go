package godbolt

// State is the lifecycle stage of a [Client].
type State int

const (
	StateUninitialized State = iota
	StateDiscovering
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDiscovering:
		return "discovering"
	case StateReady:
		return "ready"
	}
	return "unknown"
}
