package domain

import "fmt"

// ErrorKind classifies the fatal failures the restructuring pipeline can
// raise. All of them abort the current pass; none are recoverable at
// this layer (see spec §7 — error handling design).
type ErrorKind int

const (
	// ErrMalformedInput covers a CFG without an entry, or with a
	// dangling edge.
	ErrMalformedInput ErrorKind = iota
	// ErrNonTerminatingInflation covers inflation exceeding its sanity
	// bound.
	ErrNonTerminatingInflation
	// ErrInvariantViolation covers a pass producing a tree or region
	// that would break an invariant from spec §3.
	ErrInvariantViolation
	// ErrUnexpectedNodeKind covers a polymorphic dispatch encountering
	// a kind it does not handle.
	ErrUnexpectedNodeKind
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMalformedInput:
		return "malformed input"
	case ErrNonTerminatingInflation:
		return "non-terminating inflation"
	case ErrInvariantViolation:
		return "invariant violation"
	case ErrUnexpectedNodeKind:
		return "unexpected node kind"
	default:
		return "unknown error"
	}
}

// RestructureError is the single fatal-error type the core raises. It
// always names the offending vertex or node ID so a caller can locate
// the failure without a partial result to inspect.
type RestructureError struct {
	Kind    ErrorKind
	NodeID  string
	Message string
}

func (e *RestructureError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: %s (node %s)", e.Kind, e.Message, e.NodeID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewRestructureError builds a RestructureError for the given kind,
// offending node/vertex ID, and message.
func NewRestructureError(kind ErrorKind, nodeID, message string) *RestructureError {
	return &RestructureError{Kind: kind, NodeID: nodeID, Message: message}
}

// IsRestructureError reports whether err is a *RestructureError of the
// given kind.
func IsRestructureError(err error, kind ErrorKind) bool {
	re, ok := err.(*RestructureError)
	return ok && re.Kind == kind
}
