package resolver

import "context"

// Existence is the result of evaluating one chained locator against the
// live page.
type Existence struct {
	Exists  bool `json:"exists"`
	Visible bool `json:"visible"`
}

// Adapter is the DOM evaluation surface the engine consumes from the host
// browser-automation layer. One ExistsAndVisible call covers a full
// locator chain; implementations must keep it cheap enough to invoke many
// times per resolution.
type Adapter interface {
	// ExistsAndVisible evaluates the chained locator in page scope.
	ExistsAndVisible(ctx context.Context, locator string) (Existence, error)

	// ExtractAttribute reads an attribute from the first element matched
	// by locator. The bool result is false when the attribute is absent.
	ExtractAttribute(ctx context.Context, locator, attribute string) (string, bool, error)

	// Scroll performs a best-effort scroll. An empty target means a
	// default full-page scroll; otherwise target is a locator to bring
	// into view.
	Scroll(ctx context.Context, target string) error

	// WaitReady blocks until the current page reports loaded. Called
	// exactly once, at the start of each resolution.
	WaitReady(ctx context.Context) error
}
