package resolver

import (
	"fmt"
	"strings"
)

// Reason classifies a failed resolution.
type Reason string

const (
	// ReasonNoTemplatesRegistered means the active screen has no template
	// list for the requested category. Reported distinctly from
	// exhausted candidates so a misconfigured pattern file is not
	// mistaken for a missing element.
	ReasonNoTemplatesRegistered Reason = "NoTemplatesRegistered"

	// ReasonTimeout means the retry loop exhausted its scroll cap or the
	// overall timeout with no visible candidate.
	ReasonTimeout Reason = "Timeout"

	// ReasonAdapterError means the DOM evaluation adapter itself failed,
	// e.g. the underlying page or session was torn down.
	ReasonAdapterError Reason = "AdapterError"
)

// Failure is the structured terminal state of an unsuccessful resolution.
// It is a value, not a panic: callers decide whether it is a hard test
// failure or a tolerated outcome (e.g. an absence check).
type Failure struct {
	AttemptID  string   `json:"attempt_id"`
	Identifier string   `json:"identifier"`
	Category   string   `json:"category"`
	Screen     string   `json:"screen"`
	Reason     Reason   `json:"reason"`
	Candidates []string `json:"candidates,omitempty"`
	Err        error    `json:"-"`
}

func (f *Failure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "resolution of %q (category %s, screen %s) failed: %s", f.Identifier, f.Category, f.Screen, f.Reason)
	if f.Err != nil {
		fmt.Fprintf(&b, ": %v", f.Err)
	}
	if len(f.Candidates) > 0 {
		fmt.Fprintf(&b, " (tried %s)", strings.Join(f.Candidates, ", "))
	}
	return b.String()
}

func (f *Failure) Unwrap() error { return f.Err }
