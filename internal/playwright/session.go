package playwright

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Session owns a browser and a single page for one-off resolutions, e.g.
// from the CLI resolve command.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

func NewSession(headless bool) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: 1280, Height: 720},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &Session{pw: pw, browser: browser, page: page}, nil
}

func (s *Session) Page() playwright.Page { return s.page }

func (s *Session) Navigate(url string) error {
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (s *Session) Close() error {
	if err := s.browser.Close(); err != nil {
		_ = s.pw.Stop()
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return s.pw.Stop()
}
