package study

// State is where a feature's artifact currently stands.
type State int

const (
	// StateEmpty means nothing is loaded and nothing usable was cached.
	StateEmpty State = iota

	// StateLoading means a generation request is in flight.
	StateLoading

	// StateReady means the artifact is available.
	StateReady

	// StateError means the last generation attempt failed. A retry moves
	// back through StateLoading.
	StateError
)

// String returns the state name for logs and status output.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
