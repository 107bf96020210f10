package audiocore

import "fmt"

// ErrorCode enumerates the control-thread error taxonomy (spec §6/§7).
type ErrorCode int

const (
	// UnsupportedChannelConfiguration is returned when a decoded asset has
	// three or more channels (the loader's concern; pinned here for the
	// error taxonomy it surfaces at the engine boundary).
	UnsupportedChannelConfiguration ErrorCode = iota
	// UnsupportedAudioFileFormat is returned for an unrecognized file
	// extension/container.
	UnsupportedAudioFileFormat
	// DecodeFailure wraps a lower-level decode error from the (external)
	// loader.
	DecodeFailure
	// StillCoolingDown is returned when a one-shot Play request targets an
	// asset whose cooldown timer has not yet elapsed.
	StillCoolingDown
	// CommandQueueFull is returned when a higher-capacity (non latest-wins)
	// command ring rejects a push.
	CommandQueueFull
	// RoutingCycleDetected is returned when routing a sub-track would
	// create a cycle in the track DAG.
	RoutingCycleDetected
	// DeviceUnavailable is returned when the backend cannot obtain a
	// device at setup or start time.
	DeviceUnavailable
	// UnknownTrackID is set when a structural command names a track id
	// that no longer exists in the render graph (e.g. a stale removal).
	UnknownTrackID
	// UnknownEffectID is set when a structural command names an effect id
	// that no longer exists on its target track.
	UnknownEffectID
)

func (c ErrorCode) String() string {
	switch c {
	case UnsupportedChannelConfiguration:
		return "unsupported channel configuration"
	case UnsupportedAudioFileFormat:
		return "unsupported audio file format"
	case DecodeFailure:
		return "decode failure"
	case StillCoolingDown:
		return "still cooling down"
	case CommandQueueFull:
		return "command queue full"
	case RoutingCycleDetected:
		return "routing cycle detected"
	case DeviceUnavailable:
		return "device unavailable"
	case UnknownTrackID:
		return "unknown track id"
	case UnknownEffectID:
		return "unknown effect id"
	default:
		return "unknown error"
	}
}

// EngineError is a typed error carrying one of the ErrorCode taxonomy
// members plus optional context.
type EngineError struct {
	Code ErrorCode
	Msg  string
	Err  error
}

func (e *EngineError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code.String()
}

func (e *EngineError) Unwrap() error { return e.Err }

// NewError builds an EngineError with the given code and message.
func NewError(code ErrorCode, msg string) *EngineError {
	return &EngineError{Code: code, Msg: msg}
}

// WrapError builds an EngineError with the given code, wrapping err.
func WrapError(code ErrorCode, err error) *EngineError {
	return &EngineError{Code: code, Err: err}
}
