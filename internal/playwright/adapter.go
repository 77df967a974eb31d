// Package playwright adapts a Playwright page to the resolver's DOM
// evaluation interface. Chained locators use Playwright's native " >> "
// selector chaining, so the engine's output is passed through verbatim.
package playwright

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/fieldmark-ai/fieldmark/internal/resolver"
)

// Adapter implements resolver.Adapter on top of one Playwright page.
type Adapter struct {
	page playwright.Page
}

func NewAdapter(page playwright.Page) *Adapter {
	return &Adapter{page: page}
}

// ExistsAndVisible evaluates the full chain in a single Locator query:
// existence via match count, visibility on the first match.
func (a *Adapter) ExistsAndVisible(ctx context.Context, locator string) (resolver.Existence, error) {
	if err := ctx.Err(); err != nil {
		return resolver.Existence{}, err
	}

	loc := a.page.Locator(locator)
	count, err := loc.Count()
	if err != nil {
		return resolver.Existence{}, fmt.Errorf("failed to evaluate locator %q: %w", locator, err)
	}
	if count == 0 {
		return resolver.Existence{}, nil
	}

	visible, err := loc.First().IsVisible()
	if err != nil {
		return resolver.Existence{}, fmt.Errorf("failed to check visibility of %q: %w", locator, err)
	}
	return resolver.Existence{Exists: true, Visible: visible}, nil
}

func (a *Adapter) ExtractAttribute(ctx context.Context, locator, attribute string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	loc := a.page.Locator(locator).First()
	value, err := loc.GetAttribute(attribute)
	if err != nil {
		return "", false, fmt.Errorf("failed to read attribute %s of %q: %w", attribute, locator, err)
	}
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// Scroll brings the target into view, or advances the page by one
// viewport height when no target is given.
func (a *Adapter) Scroll(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if target == "" {
		if _, err := a.page.Evaluate("() => window.scrollBy(0, window.innerHeight)"); err != nil {
			return fmt.Errorf("failed to scroll page: %w", err)
		}
		return nil
	}

	loc := a.page.Locator(target).First()
	if err := loc.ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("failed to scroll %q into view: %w", target, err)
	}
	return nil
}

func (a *Adapter) WaitReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := a.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateLoad,
	}); err != nil {
		return fmt.Errorf("failed to wait for page load: %w", err)
	}
	return nil
}
