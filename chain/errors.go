package chain

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure categories a ProbeError can carry,
// modelling the dynamic isinstance dispatch of the program this package
// was distilled from as a total, typed classification.
type Kind string

const (
	KindTimeout            Kind = "timeout"
	KindQueryError         Kind = "query_error"
	KindMissingResource    Kind = "missing_resource"
	KindInsecureDelegation Kind = "insecure_delegation"
	KindShouldNotHappen    Kind = "should_not_happen"
	KindEmpty              Kind = "empty"
	KindOther              Kind = "other"
)

// State is the ValidationState a Kind surfaces as (spec §7).
func (k Kind) State() ValidationState {
	switch k {
	case KindTimeout:
		return StateTimeout
	case KindQueryError:
		return StateQueryError
	case KindMissingResource:
		return StateMissingResource
	case KindInsecureDelegation:
		return StateUnsecured
	case KindShouldNotHappen:
		return StateWeirdStuffHappened
	default:
		return StateOther
	}
}

var (
	ErrTimeout         = errors.New("no response within the query deadline")
	ErrQueryFailed     = errors.New("query returned a non-zero rcode")
	ErrMissingResource = errors.New("expected record set is absent")
	ErrInsecureDelegation = errors.New("delegation proven insecure by NSEC/NSEC3")
	ErrShouldNotHappen = errors.New("contradictory denial-of-existence proof")
	ErrEmptySet        = errors.New("record set is empty where validation requires one")
	ErrNilMessage      = errors.New("nil message sent to transport")
	ErrBadRootAnchors  = errors.New("root zone failed to validate against compiled-in anchors")
)

// ProbeError is the wrapping error type every component returns; Kind
// drives classification, Reason is the free-form forensic string carried
// into a ZoneReport/ChainReport.
type ProbeError struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

func newProbeError(kind Kind, reasonFmt string, args ...any) *ProbeError {
	return &ProbeError{Kind: kind, Reason: fmt.Sprintf(reasonFmt, args...)}
}

func wrapProbeError(kind Kind, err error, reasonFmt string, args ...any) *ProbeError {
	return &ProbeError{Kind: kind, Reason: fmt.Sprintf(reasonFmt, args...), Err: err}
}

// ClassifyError maps any error into a Kind, total over the taxonomy:
// a *ProbeError carries its own Kind directly; a bare sentinel is mapped
// by identity; anything else classifies as KindOther, with its Go type
// name folded into the reason the caller attaches to the report.
func ClassifyError(err error) Kind {
	if err == nil {
		return KindOther
	}

	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe.Kind
	}

	switch {
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrQueryFailed):
		return KindQueryError
	case errors.Is(err, ErrMissingResource):
		return KindMissingResource
	case errors.Is(err, ErrInsecureDelegation):
		return KindInsecureDelegation
	case errors.Is(err, ErrShouldNotHappen):
		return KindShouldNotHappen
	case errors.Is(err, ErrEmptySet):
		return KindEmpty
	default:
		return KindOther
	}
}

// ErrorReason builds the free-form forensic string a terminal state is
// reported with, including the Go error's dynamic type for KindOther.
func ErrorReason(err error) string {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return fmt.Sprintf("%T: %s", err, err.Error())
}
