package command

import (
	"errors"
	"fmt"
)

// Code is a machine-readable validation error code.
type Code string

const (
	CodeInsufficientFunds    Code = "insufficient_funds"
	CodeInsufficientIntel    Code = "insufficient_intel"
	CodeInsufficientCapacity Code = "insufficient_capacity"
	CodeInsufficientAgents   Code = "insufficient_agents"
	CodeUnknownAgent         Code = "unknown_agent"
	CodeIneligibleAgent      Code = "ineligible_agent"
	CodeAgentOnMission       Code = "agent_on_mission"
	CodeAlreadyAssigned      Code = "already_assigned"
	CodeUnknownSite          Code = "unknown_site"
	CodeUnknownFaction       Code = "unknown_faction"
	CodeInvalidAmount        Code = "invalid_amount"
	CodeDuplicateAgent       Code = "duplicate_agent"
	CodeGameOver             Code = "game_over"
	CodeUnknownCommand       Code = "unknown_command"
	CodeMalformedCommand     Code = "malformed_command"
	CodeNothingToUndo        Code = "nothing_to_undo"
	CodeNothingToRedo        Code = "nothing_to_redo"
	CodeEmptyBatch           Code = "empty_batch"
)

// Error is a rejected command. The state it was validated against is left
// untouched, so callers may correct the input and retry.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable detail for logs
	Metadata map[string]string // Offending ids and amounts
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a validation error.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithMetadata attaches a key/value pair and returns e.
func (e *Error) WithMetadata(key string, value any) *Error {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = fmt.Sprint(value)
	return e
}

// Sentinels for errors.Is checks.
var (
	ErrInsufficientFunds    = &Error{Code: CodeInsufficientFunds}
	ErrInsufficientIntel    = &Error{Code: CodeInsufficientIntel}
	ErrInsufficientCapacity = &Error{Code: CodeInsufficientCapacity}
	ErrInsufficientAgents   = &Error{Code: CodeInsufficientAgents}
	ErrUnknownAgent         = &Error{Code: CodeUnknownAgent}
	ErrIneligibleAgent      = &Error{Code: CodeIneligibleAgent}
	ErrAgentOnMission       = &Error{Code: CodeAgentOnMission}
	ErrAlreadyAssigned      = &Error{Code: CodeAlreadyAssigned}
	ErrUnknownSite          = &Error{Code: CodeUnknownSite}
	ErrUnknownFaction       = &Error{Code: CodeUnknownFaction}
	ErrInvalidAmount        = &Error{Code: CodeInvalidAmount}
	ErrDuplicateAgent       = &Error{Code: CodeDuplicateAgent}
	ErrGameOver             = &Error{Code: CodeGameOver}
	ErrUnknownCommand       = &Error{Code: CodeUnknownCommand}
	ErrMalformedCommand     = &Error{Code: CodeMalformedCommand}
	ErrNothingToUndo        = &Error{Code: CodeNothingToUndo}
	ErrNothingToRedo        = &Error{Code: CodeNothingToRedo}
	ErrEmptyBatch           = &Error{Code: CodeEmptyBatch}
)

// CodeOf extracts the code of a validation error, or "" for anything else.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
