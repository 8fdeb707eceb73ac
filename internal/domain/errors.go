package domain

import "fmt"

// EngineError is the unified error type for the engine.
// Each error has a numeric code and human-readable message.
type EngineError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("engine error %d: %s", e.Code, e.Message)
}

// NewEngineError creates a new EngineError.
func NewEngineError(code int, msg string) *EngineError {
	return &EngineError{Code: code, Message: msg}
}

// WrapEngineError creates an EngineError that includes a cause.
func WrapEngineError(code int, msg string, cause error) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf("%s: %v", msg, cause)}
}

// ---- Engine / sleep / game errors (-32010 to -32039) ----

var (
	ErrUnknownGame     = &EngineError{Code: -32013, Message: "unknown mini-game"}
	ErrGameNotOpen     = &EngineError{Code: -32014, Message: "no mini-game is running"}
	ErrSessionFinished = &EngineError{Code: -32015, Message: "mini-game session already finished"}
)

// ---- Store / config errors (-32130 to -32159) ----

var (
	ErrStoreInit      = &EngineError{Code: -32130, Message: "failed to initialize store"}
	ErrStoreQuery     = &EngineError{Code: -32131, Message: "store query failed"}
	ErrStoreWrite     = &EngineError{Code: -32132, Message: "store write failed"}
	ErrConfigInvalid  = &EngineError{Code: -32136, Message: "invalid configuration"}
	ErrDuplicateEvent = &EngineError{Code: -32137, Message: "duplicate event sequence number"}
	ErrVisitNotFound  = &EngineError{Code: -32138, Message: "visit not found"}
)
