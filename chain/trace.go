package chain

import (
	"fmt"

	"github.com/google/uuid"
)

// Trace correlates the log lines emitted while validating a single chain.
// Adapted from the teacher's Trace type, dropping the atomic iteration
// counter: there is no iterative resolution here to count, just a
// strictly sequential walk of the zones split() discovered.
type Trace struct {
	id uuid.UUID
}

// NewTrace mints a fresh trace id for one ValidateChain call.
func NewTrace() *Trace {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Trace{id: id}
}

// ShortID returns the last 7 characters of the trace id, unique enough
// for eyeballing concurrent log output.
func (t *Trace) ShortID() string {
	s := t.id.String()
	return s[len(s)-7:]
}

func (t *Trace) String() string {
	return fmt.Sprintf("trace[%s]", t.ShortID())
}
