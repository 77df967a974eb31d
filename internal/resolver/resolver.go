// Package resolver implements the resolution state machine: it turns a
// parsed field identifier plus the pattern repository into a validated
// chained locator, iterating fallback templates in declared order and
// scrolling between retry sweeps until a candidate is visible or the
// attempt times out.
package resolver

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldmark-ai/fieldmark/internal/config"
	"github.com/fieldmark-ai/fieldmark/internal/identifier"
	"github.com/fieldmark-ai/fieldmark/internal/patterns"
	"github.com/fieldmark-ai/fieldmark/internal/vars"
)

// ChainSeparator joins the location, section and field segments of a
// chained locator. Each segment is evaluated within the previous
// segment's result.
const ChainSeparator = " >> "

// MaxScrollIterations caps scroll-and-retry sweeps per resolution
// attempt, independently of the configured timeout.
const MaxScrollIterations = 10

// LabelCategory is the field-template category consulted for label
// association before resolving form-field elements.
const LabelCategory = "label"

// Categories that trigger label resolution: text inputs, selection
// controls and multi-line text, all of which may carry a label whose
// "for" value feeds loc.auto.forId.
var formFieldCategories = map[string]bool{
	"input":    true,
	"select":   true,
	"checkbox": true,
	"radio":    true,
	"textarea": true,
}

// Options carries the optional parameters of one Resolve call.
type Options struct {
	// Screen overrides the bound and configured screen code.
	Screen string
	// Timeout bounds the whole attempt; zero means the configured
	// retry timeout.
	Timeout time.Duration
}

// Engine is the resolution state machine. Safe for concurrent Resolve
// calls: per-attempt context lives in a call-scoped variable overlay, and
// the store and repository are read-only after load.
type Engine struct {
	store   *vars.Store
	repo    *patterns.Repository
	adapter Adapter
	cfg     *config.Config
	logger  *slog.Logger

	mu          sync.RWMutex
	boundScreen string
}

func New(store *vars.Store, repo *patterns.Repository, adapter Adapter, cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:   store,
		repo:    repo,
		adapter: adapter,
		cfg:     cfg,
		logger:  logger,
	}
}

// BindScreen sets the default screen code used when a Resolve call
// carries no override.
func (e *Engine) BindScreen(code string) {
	e.mu.Lock()
	e.boundScreen = code
	e.mu.Unlock()
}

// BindScreenForURL binds the screen code mapped to the given page URL,
// if the configuration maps one, and returns it.
func (e *Engine) BindScreenForURL(url string) string {
	code := e.cfg.ScreenForURL(url)
	if code != "" {
		e.BindScreen(code)
	}
	return code
}

// Resolve turns a raw field identifier into a chained locator that is
// visible on the current page. On failure it returns a structured
// Failure; it never panics for "element not found".
func (e *Engine) Resolve(ctx context.Context, category, rawIdentifier string, opts Options) (string, *Failure) {
	attemptID := uuid.NewString()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = e.cfg.GetRetryTimeout()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	id := identifier.Parse(rawIdentifier)
	screen := e.effectiveScreen(opts.Screen)

	fail := func(reason Reason, candidates []string, err error) *Failure {
		f := &Failure{
			AttemptID:  attemptID,
			Identifier: rawIdentifier,
			Category:   category,
			Screen:     screen,
			Reason:     reason,
			Candidates: candidates,
			Err:        err,
		}
		e.logger.Debug("resolution failed", "attempt", attemptID, "identifier", rawIdentifier, "reason", reason, "error", err)
		return f
	}

	if err := e.adapter.WaitReady(ctx); err != nil {
		return "", fail(ReasonAdapterError, nil, err)
	}

	scope := vars.NewScope(e.store)
	defer scope.Reset()
	bindContext(scope, id)

	templates := e.repo.FieldTemplates(screen, category)
	if len(templates) == 0 {
		return "", fail(ReasonNoTemplatesRegistered, nil, nil)
	}

	if formFieldCategories[category] {
		if err := e.resolveLabel(ctx, scope, screen); err != nil {
			return "", fail(ReasonAdapterError, nil, err)
		}
	}

	// Location and section templates are looked up once but substituted
	// and evaluated inside every sweep, so a late-appearing parent
	// container is tolerated the same way a late-appearing field is.
	locationTmpl := e.containerTemplate(screen, patterns.CategoryLocations, id.LocationName)
	sectionTmpl := e.containerTemplate(screen, patterns.CategorySections, id.SectionName)

	var tried []string
	for scrolls := 0; ; scrolls++ {
		for _, tmpl := range templates {
			chain := buildChain(scope, locationTmpl, sectionTmpl, tmpl, id.Instance)
			if scrolls == 0 {
				tried = append(tried, chain)
			}

			if ctx.Err() != nil {
				return "", fail(ReasonTimeout, tried, ctx.Err())
			}
			res, err := e.adapter.ExistsAndVisible(ctx, chain)
			if err != nil {
				return "", fail(ReasonAdapterError, tried, err)
			}
			if res.Visible {
				e.logger.Debug("resolved", "attempt", attemptID, "identifier", rawIdentifier, "locator", chain, "scrolls", scrolls)
				return chain, nil
			}
		}

		if scrolls >= MaxScrollIterations {
			break
		}
		if err := e.scroll(ctx, scope, screen); err != nil {
			return "", fail(ReasonAdapterError, tried, err)
		}
		select {
		case <-ctx.Done():
			return "", fail(ReasonTimeout, tried, ctx.Err())
		case <-time.After(e.cfg.GetRetryInterval()):
		}
	}

	return "", fail(ReasonTimeout, tried, nil)
}

// effectiveScreen picks the screen code: explicit override, else the
// bound default, else the configured fallback.
func (e *Engine) effectiveScreen(override string) string {
	if override != "" {
		return override
	}
	e.mu.RLock()
	bound := e.boundScreen
	e.mu.RUnlock()
	if bound != "" {
		return bound
	}
	return e.cfg.DefaultScreen
}

// bindContext writes the parsed identifier into the call scope as
// loc.auto.* variables.
func bindContext(scope *vars.Scope, id identifier.Identifier) {
	scope.Set("loc.auto.fieldName", id.FieldName)
	scope.Set("loc.auto.fieldName.toLowerCase", strings.ToLower(id.FieldName))
	scope.Set("loc.auto.fieldInstance", strconv.Itoa(id.Instance))
	if id.HasLocation() {
		scope.Set("loc.auto.location.name", id.LocationName)
		scope.Set("loc.auto.location.value", id.LocationValue)
	}
	if id.HasSection() {
		scope.Set("loc.auto.section.name", id.SectionName)
		scope.Set("loc.auto.section.value", id.SectionValue)
	}
}

// resolveLabel walks the screen's label templates and, on the first
// existing match, binds its "for" value into loc.auto.forId. A miss is
// not an error: forId stays unset and templates referencing it degrade
// to an empty attribute match. Adapter errors do propagate.
func (e *Engine) resolveLabel(ctx context.Context, scope *vars.Scope, screen string) error {
	for _, tmpl := range e.repo.FieldTemplates(screen, LabelCategory) {
		candidate := scope.Substitute(tmpl)
		res, err := e.adapter.ExistsAndVisible(ctx, candidate)
		if err != nil {
			return err
		}
		if !res.Exists {
			continue
		}
		forID, ok, err := e.adapter.ExtractAttribute(ctx, candidate, "for")
		if err != nil {
			return err
		}
		if ok && forID != "" {
			scope.Set("loc.auto.forId", forID)
		}
		return nil
	}
	return nil
}

// containerTemplate looks up the single location or section template for
// the named container. Missing names resolve to no segment rather than a
// broken chain.
func (e *Engine) containerTemplate(screen, category, name string) string {
	if name == "" {
		return ""
	}
	tmpl, ok := e.repo.Lookup(screen, category, name)
	if !ok {
		e.logger.Debug("no container template registered", "screen", screen, "category", category, "name", name)
		return ""
	}
	return tmpl
}

// buildChain substitutes the segments and joins them with the traversal
// separator, location first. An instance above 1 appends an nth= segment
// selecting the Nth match (1-indexed); instance 1 leaves the chain
// untouched.
func buildChain(scope *vars.Scope, locationTmpl, sectionTmpl, fieldTmpl string, instance int) string {
	segments := make([]string, 0, 3)
	if locationTmpl != "" {
		segments = append(segments, scope.Substitute(locationTmpl))
	}
	if sectionTmpl != "" {
		segments = append(segments, scope.Substitute(sectionTmpl))
	}
	segments = append(segments, scope.Substitute(fieldTmpl))

	chain := strings.Join(segments, ChainSeparator)
	if instance > 1 {
		chain += ChainSeparator + "nth=" + strconv.Itoa(instance-1)
	}
	return chain
}

// scroll uses the screen's configured scroll targets when present, else a
// default full-page scroll.
func (e *Engine) scroll(ctx context.Context, scope *vars.Scope, screen string) error {
	targets := e.repo.ScrollTargets(screen)
	if len(targets) == 0 {
		return e.adapter.Scroll(ctx, "")
	}
	for _, tmpl := range targets {
		if err := e.adapter.Scroll(ctx, scope.Substitute(tmpl)); err != nil {
			return err
		}
	}
	return nil
}
